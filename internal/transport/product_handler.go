package transport

import (
	"net/http"
	"strconv"

	"storemart-be/internal/product"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type productRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    *string  `json:"description"`
	Tags           []string `json:"tags"`
	Specifications []string `json:"specifications"`
	BasePrice      float64  `json:"basePrice" binding:"required"`
	SellingPrice   float64  `json:"sellingPrice" binding:"required"`
	CostToCompany  float64  `json:"costToCompany"`
	CategoryID     uint     `json:"categoryId" binding:"required"`
	Stock          int      `json:"stock"`
	Active         *bool    `json:"active"`
}

type productPatchRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Tags           []string `json:"tags"`
	Specifications []string `json:"specifications"`
	BasePrice      *float64 `json:"basePrice"`
	SellingPrice   *float64 `json:"sellingPrice"`
	CostToCompany  *float64 `json:"costToCompany"`
	CategoryID     *uint    `json:"categoryId"`
	Active         *bool    `json:"active"`
}

type productResponse struct {
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	Description    *string  `json:"description,omitempty"`
	Tags           []string `json:"tags"`
	Specifications []string `json:"specifications"`
	BasePrice      float64  `json:"basePrice"`
	SellingPrice   float64  `json:"sellingPrice"`
	CategoryID     uint     `json:"categoryId"`
	Stock          int      `json:"stock"`
	Active         bool     `json:"active"`
	AvgRating      float64  `json:"avgRating"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Tags:           p.Tags,
		Specifications: p.Specifications,
		BasePrice:      p.BasePrice,
		SellingPrice:   p.SellingPrice,
		CategoryID:     p.CategoryID,
		Stock:          p.Stock,
		Active:         p.Active,
		AvgRating:      p.AvgRating,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	opts := product.QueryOptions{}

	if search := c.Query("search"); search != "" {
		opts.Search = &search
	}
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid categoryId"})
			return
		}
		cid := uint(id)
		opts.CategoryID = &cid
	}
	opts.OnlyActive = c.Query("all") != "true"
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil {
			opts.Limit = int32(v)
		}
	}
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil {
			opts.Page = int32(v)
		}
	}

	products, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	p := &product.Product{
		Name:           req.Name,
		Description:    req.Description,
		Tags:           req.Tags,
		Specifications: req.Specifications,
		BasePrice:      req.BasePrice,
		SellingPrice:   req.SellingPrice,
		CostToCompany:  req.CostToCompany,
		CategoryID:     req.CategoryID,
		Stock:          req.Stock,
		Active:         true,
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	if err := h.svc.Create(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(p))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req productPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, product.Update{
		Name:           req.Name,
		Description:    req.Description,
		Tags:           req.Tags,
		Specifications: req.Specifications,
		BasePrice:      req.BasePrice,
		SellingPrice:   req.SellingPrice,
		CostToCompany:  req.CostToCompany,
		CategoryID:     req.CategoryID,
		Active:         req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Delete(c *gin.Context) {
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

// pathID parses the :id path segment, replying 400 itself on garbage.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
