package main

import (
	"log"

	"storemart-be/internal/cache"
	"storemart-be/internal/category"
	"storemart-be/internal/config"
	"storemart-be/internal/coupon"
	"storemart-be/internal/customer"
	"storemart-be/internal/db"
	"storemart-be/internal/inventory"
	"storemart-be/internal/logger"
	"storemart-be/internal/order"
	"storemart-be/internal/product"
	"storemart-be/internal/rating"
	"storemart-be/internal/sequence"
	"storemart-be/internal/transport"
	"storemart-be/internal/user"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	productRepo := product.NewRepository(database)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		productRepo = cache.NewProductCache(productRepo, rdb)
	}
	productSvc := product.NewService(productRepo)

	categoryRepo := category.NewRepository(database)
	categorySvc := category.NewService(categoryRepo)

	customerRepo := customer.NewRepository(database)
	customerSvc := customer.NewService(customerRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	couponRepo := coupon.NewRepository(database)
	couponSvc := coupon.NewService(couponRepo)

	ratingRepo := rating.NewRepository(database)
	ratingSvc := rating.NewService(ratingRepo)

	ledger := inventory.NewLedger(database)
	seq := sequence.NewGenerator(database)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, customerRepo, productRepo, ledger, couponSvc, seq)

	router := transport.NewRouter(transport.Services{
		Products:   productSvc,
		Categories: categorySvc,
		Customers:  customerSvc,
		Users:      userSvc,
		Coupons:    couponSvc,
		Ratings:    ratingSvc,
		Orders:     orderSvc,
	})

	log.Printf("server listening on :%s", cfg.AppPort)
	log.Fatal(router.Run(":" + cfg.AppPort))
}
