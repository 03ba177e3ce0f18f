package transport

import (
	"errors"
	"net/http"

	"storemart-be/internal/category"
	"storemart-be/internal/coupon"
	"storemart-be/internal/customer"
	"storemart-be/internal/inventory"
	"storemart-be/internal/logger"
	"storemart-be/internal/order"
	"storemart-be/internal/product"
	"storemart-be/internal/rating"
	"storemart-be/internal/sequence"
	"storemart-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var notFoundErrors = []error{
	product.ErrProductNotFound,
	category.ErrCategoryNotFound,
	customer.ErrCustomerNotFound,
	user.ErrUserNotFound,
	coupon.ErrCouponNotFound,
	order.ErrOrderNotFound,
	inventory.ErrProductNotFound,
	rating.ErrProductNotFound,
	rating.ErrCustomerNotFound,
}

var conflictErrors = []error{
	customer.ErrEmailExists,
	user.ErrEmailExists,
	product.ErrNameExists,
	category.ErrNameExists,
	coupon.ErrCodeExists,
	order.ErrOrderNumberConflict,
	order.ErrInvalidTransition,
}

var unprocessableErrors = []error{
	inventory.ErrInsufficientStock,
	coupon.ErrCouponInactive,
	coupon.ErrCouponExpired,
	coupon.ErrCouponExhausted,
}

var badRequestErrors = []error{
	inventory.ErrInvalidQuantity,
	product.ErrInvalidPrice,
	category.ErrEmptyName,
	coupon.ErrInvalidDiscount,
	coupon.ErrExpiredDate,
	rating.ErrInvalidValue,
	order.ErrEmptyItems,
	order.ErrInvalidQuantity,
	order.ErrIncompleteAddress,
	order.ErrImmutableField,
	order.ErrUnknownField,
	order.ErrMissingTransactionID,
}

func matchAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// respondError translates a domain error into an HTTP status. Anything
// unrecognized is a 500 and its detail stays out of the response body.
func respondError(c *gin.Context, err error) {
	switch {
	case matchAny(err, notFoundErrors):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case matchAny(err, conflictErrors):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case matchAny(err, unprocessableErrors):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case matchAny(err, badRequestErrors):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, customer.ErrInvalidCredentials) || errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, sequence.ErrSequenceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "order number service unavailable"})
	default:
		logger.FromCtx(c.Request.Context()).Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
