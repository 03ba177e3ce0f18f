package transport

import (
	"net/http"

	"storemart-be/internal/auth"
	"storemart-be/internal/rating"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	svc rating.Service
}

func NewRatingHandler(svc rating.Service) *RatingHandler {
	return &RatingHandler{svc: svc}
}

type submitRatingRequest struct {
	ProductID uint    `json:"productId" binding:"required"`
	Value     float64 `json:"rating"`
	Comment   *string `json:"comment"`
}

type ratingResponse struct {
	ID         uint    `json:"id"`
	CustomerID uint    `json:"customerId"`
	ProductID  uint    `json:"productId"`
	Value      float64 `json:"rating"`
	Comment    *string `json:"comment,omitempty"`
}

func toRatingResponse(rt *rating.Rating) ratingResponse {
	return ratingResponse{
		ID:         rt.ID,
		CustomerID: rt.CustomerID,
		ProductID:  rt.ProductID,
		Value:      rt.Value,
		Comment:    rt.Comment,
	}
}

// Submit upserts the caller's rating for a product. The customer identity
// comes from the token, never from the body.
func (h *RatingHandler) Submit(c *gin.Context) {
	p, ok := auth.PrincipalFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}

	var req submitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	rt, avg, err := h.svc.Submit(c.Request.Context(), p.ID, req.ProductID, req.Value, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"rating":    toRatingResponse(rt),
		"avgRating": avg,
	})
}

func (h *RatingHandler) ListByProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ratings, err := h.svc.ListByProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]ratingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, toRatingResponse(&ratings[i]))
	}
	c.JSON(http.StatusOK, gin.H{"ratings": out})
}
