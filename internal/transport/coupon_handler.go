package transport

import (
	"net/http"
	"time"

	"storemart-be/internal/coupon"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	svc coupon.Service
}

func NewCouponHandler(svc coupon.Service) *CouponHandler {
	return &CouponHandler{svc: svc}
}

type couponRequest struct {
	Code            string     `json:"code" binding:"required"`
	DiscountPercent float64    `json:"discountPercent" binding:"required"`
	DiscountCap     float64    `json:"discountCap"`
	UsageLimit      int        `json:"usageLimit"`
	ExpirationDate  *time.Time `json:"expirationDate"`
	IsActive        *bool      `json:"isActive"`
}

type couponPatchRequest struct {
	Code            *string    `json:"code"`
	DiscountPercent *float64   `json:"discountPercent"`
	DiscountCap     *float64   `json:"discountCap"`
	UsageLimit      *int       `json:"usageLimit"`
	ExpirationDate  *time.Time `json:"expirationDate"`
	IsActive        *bool      `json:"isActive"`
}

type applyCouponRequest struct {
	Code       string  `json:"code" binding:"required"`
	OrderTotal float64 `json:"orderTotal" binding:"required"`
}

type couponResponse struct {
	ID              uint       `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent float64    `json:"discountPercent"`
	DiscountCap     float64    `json:"discountCap"`
	UsageLimit      int        `json:"usageLimit"`
	ExpirationDate  *time.Time `json:"expirationDate,omitempty"`
	IsActive        bool       `json:"isActive"`
}

func toCouponResponse(cp *coupon.Coupon) couponResponse {
	return couponResponse{
		ID:              cp.ID,
		Code:            cp.Code,
		DiscountPercent: cp.DiscountPercent,
		DiscountCap:     cp.DiscountCap,
		UsageLimit:      cp.UsageLimit,
		ExpirationDate:  cp.ExpirationDate,
		IsActive:        cp.IsActive,
	}
}

func (h *CouponHandler) List(c *gin.Context) {
	coupons, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]couponResponse, 0, len(coupons))
	for i := range coupons {
		out = append(out, toCouponResponse(&coupons[i]))
	}
	c.JSON(http.StatusOK, gin.H{"coupons": out})
}

func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	cp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCouponResponse(cp))
}

func (h *CouponHandler) Create(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	cp := &coupon.Coupon{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		DiscountCap:     req.DiscountCap,
		UsageLimit:      req.UsageLimit,
		ExpirationDate:  req.ExpirationDate,
		IsActive:        true,
	}
	if req.IsActive != nil {
		cp.IsActive = *req.IsActive
	}

	if err := h.svc.Create(c.Request.Context(), cp); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCouponResponse(cp))
}

func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req couponPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	cp, err := h.svc.Update(c.Request.Context(), id, coupon.Update{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		DiscountCap:     req.DiscountCap,
		UsageLimit:      req.UsageLimit,
		ExpirationDate:  req.ExpirationDate,
		IsActive:        req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCouponResponse(cp))
}

func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Apply quotes a discount without consuming a use; usage is only committed
// when an order referencing the code is placed.
func (h *CouponHandler) Apply(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	app, err := h.svc.Apply(c.Request.Context(), req.Code, req.OrderTotal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"discountAmount": app.DiscountAmount,
		"finalTotal":     app.FinalTotal,
	})
}
