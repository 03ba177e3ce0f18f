package transport

import (
	"net/http"

	"storemart-be/internal/auth"
	"storemart-be/internal/category"
	"storemart-be/internal/coupon"
	"storemart-be/internal/customer"
	"storemart-be/internal/logger"
	"storemart-be/internal/metrics"
	"storemart-be/internal/middleware"
	"storemart-be/internal/order"
	"storemart-be/internal/product"
	"storemart-be/internal/rating"
	"storemart-be/internal/user"

	"github.com/gin-gonic/gin"
)

type Services struct {
	Products   product.Service
	Categories category.Service
	Customers  customer.Service
	Users      user.Service
	Coupons    coupon.Service
	Ratings    rating.Service
	Orders     order.Service
}

// NewRouter wires every route group behind request-ID, logging, rate-limit
// and authentication middleware.
func NewRouter(svcs Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(logger.RequestLogger())
	r.Use(middleware.Authenticate())
	r.Use(middleware.RateLimit())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	products := NewProductHandler(svcs.Products)
	categories := NewCategoryHandler(svcs.Categories)
	customers := NewCustomerHandler(svcs.Customers)
	users := NewUserHandler(svcs.Users)
	coupons := NewCouponHandler(svcs.Coupons)
	ratings := NewRatingHandler(svcs.Ratings)
	orders := NewOrderHandler(svcs.Orders)

	staff := middleware.RequireKind(auth.KindUser)
	admin := middleware.RequireRole(string(user.RoleAdmin))
	shopper := middleware.RequireKind(auth.KindCustomer)

	v1 := r.Group("/api/v1")
	{
		p := v1.Group("/products")
		{
			p.GET("", products.List)
			p.GET("/:id", products.Get)
			p.GET("/:id/ratings", ratings.ListByProduct)
			p.POST("", staff, products.Create)
			p.PATCH("/:id", staff, products.Update)
			p.DELETE("/:id", staff, admin, products.Delete)
		}

		cat := v1.Group("/categories")
		{
			cat.GET("", categories.List)
			cat.GET("/:id", categories.Get)
			cat.POST("", staff, categories.Create)
			cat.PATCH("/:id", staff, categories.Update)
			cat.DELETE("/:id", staff, admin, categories.Delete)
		}

		cust := v1.Group("/customers")
		{
			cust.POST("/register", customers.Register)
			cust.POST("/login", customers.Login)
			cust.GET("", staff, customers.List)
			cust.GET("/:id", customers.Get)
			cust.PATCH("/:id", customers.Update)
			cust.DELETE("/:id", staff, admin, customers.Delete)
		}

		u := v1.Group("/users")
		{
			u.POST("/login", users.Login)
			u.POST("/register", staff, admin, users.Register)
		}

		cp := v1.Group("/coupons")
		{
			cp.POST("/apply", coupons.Apply)
			cp.GET("", staff, coupons.List)
			cp.GET("/:id", staff, coupons.Get)
			cp.POST("", staff, coupons.Create)
			cp.PATCH("/:id", staff, coupons.Update)
			cp.DELETE("/:id", staff, admin, coupons.Delete)
		}

		rt := v1.Group("/ratings")
		{
			rt.POST("", shopper, ratings.Submit)
		}

		o := v1.Group("/orders")
		{
			o.POST("", shopper, orders.Place)
			o.GET("", orders.List)
			o.GET("/:id", orders.Get)
			o.PATCH("/:id", staff, orders.Update)
		}

		v1.GET("/stats", staff, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"ordersPlaced":   metrics.DefaultPlacement.Placed.Load(),
				"ordersRejected": metrics.DefaultPlacement.Rejected.Load(),
				"stockReleases":  metrics.DefaultPlacement.StockReleases.Load(),
			})
		})
	}

	return r
}
