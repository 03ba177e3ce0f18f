package transport

import (
	"net/http"

	"storemart-be/internal/auth"
	"storemart-be/internal/customer"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	svc customer.Service
}

func NewCustomerHandler(svc customer.Service) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

type addressPayload struct {
	Label      string `json:"label"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
	IsDefault  bool   `json:"isDefault"`
}

type registerCustomerRequest struct {
	Name      string           `json:"name" binding:"required"`
	Email     string           `json:"email" binding:"required,email"`
	Phone     string           `json:"phone"`
	Password  string           `json:"password" binding:"required,min=8"`
	Addresses []addressPayload `json:"addresses"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type customerPatchRequest struct {
	Name      *string          `json:"name"`
	Email     *string          `json:"email"`
	Phone     *string          `json:"phone"`
	Addresses []addressPayload `json:"addresses"`
}

type customerResponse struct {
	ID           uint             `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone,omitempty"`
	Addresses    []addressPayload `json:"addresses,omitempty"`
	OrderHistory []uint           `json:"orderHistory,omitempty"`
}

func toAddresses(payloads []addressPayload) []customer.Address {
	out := make([]customer.Address, 0, len(payloads))
	for _, a := range payloads {
		out = append(out, customer.Address{
			Label:      a.Label,
			Street:     a.Street,
			City:       a.City,
			State:      a.State,
			PostalCode: a.PostalCode,
			Country:    a.Country,
			IsDefault:  a.IsDefault,
		})
	}
	return out
}

func toCustomerResponse(c *customer.Customer) customerResponse {
	resp := customerResponse{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		OrderHistory: c.OrderHistory,
	}
	for _, a := range c.Addresses {
		resp.Addresses = append(resp.Addresses, addressPayload{
			Label:      a.Label,
			Street:     a.Street,
			City:       a.City,
			State:      a.State,
			PostalCode: a.PostalCode,
			Country:    a.Country,
			IsDefault:  a.IsDefault,
		})
	}
	return resp
}

func (h *CustomerHandler) Register(c *gin.Context) {
	var req registerCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	cust := &customer.Customer{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Addresses: toAddresses(req.Addresses),
	}

	token, err := h.svc.Register(c.Request.Context(), cust, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setAccessCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"token":    token,
		"customer": toCustomerResponse(cust),
	})
}

func (h *CustomerHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	token, cust, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setAccessCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"customer": toCustomerResponse(cust),
	})
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]customerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, toCustomerResponse(&customers[i]))
	}
	c.JSON(http.StatusOK, gin.H{"customers": out})
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccessCustomer(c, id) {
		return
	}

	cust, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(cust))
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccessCustomer(c, id) {
		return
	}

	var req customerPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	upd := customer.Update{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if req.Addresses != nil {
		upd.Addresses = toAddresses(req.Addresses)
	}

	cust, err := h.svc.Update(c.Request.Context(), id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(cust))
}

func (h *CustomerHandler) Delete(c *gin.Context) {
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

// canAccessCustomer lets staff reach any customer and customers reach only
// themselves.
func canAccessCustomer(c *gin.Context, id uint) bool {
	p, ok := auth.PrincipalFromCtx(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return false
	}
	if p.Kind == auth.KindUser {
		return true
	}
	if p.ID != id {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "cannot access another customer"})
		return false
	}
	return true
}

func setAccessCookie(c *gin.Context, token string) {
	c.SetCookie("access_token", token, 24*60*60, "/", "", false, true)
}
