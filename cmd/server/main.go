package main

import (
	"context"
	"log"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mbrou/shop-backend/internal/config"
	"github.com/mbrou/shop-backend/internal/es"
	"github.com/mbrou/shop-backend/internal/httpserver"
	"github.com/mbrou/shop-backend/internal/logging"
	loggingmw "github.com/mbrou/shop-backend/internal/middleware/logging"
	"github.com/mbrou/shop-backend/internal/models"
	"github.com/mbrou/shop-backend/internal/mykafka"
	"github.com/mbrou/shop-backend/internal/service"
	"github.com/mbrou/shop-backend/pkg/db"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL)
	ctx := logging.IntoContext(context.Background(), logger)

	gdb, err := db.Open(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if err := service.SeedAdmin(ctx, gdb, cfg.SEED_ADMIN_EMAIL, cfg.SEED_ADMIN_PASSWORD); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer(strings.Split(cfg.KAFKA_ADDRESS, ","))
		defer producer.Close()
	} else {
		logger.Warn("KAFKA_ADDRESS empty, event publishing disabled")
	}

	searchHandler := &httpserver.SearchHTTP{Index: cfg.ES_INDEX}
	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		} else {
			searchHandler.ES = esClient
		}
	}

	inventory := &service.InventoryService{DB: gdb}
	orders := &service.OrderService{DB: gdb, Inventory: inventory}
	payments := &service.PaymentService{DB: gdb}
	carts := &service.CartService{DB: gdb, Inventory: inventory}
	products := &service.ProductService{DB: gdb}
	deliveries := &service.DeliveryService{DB: gdb}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		JWTSecret:  []byte(cfg.JWT_SECRET),
		Products:   &httpserver.ProductHTTP{Svc: products, Producer: producer},
		Orders:     &httpserver.OrderHTTP{Svc: orders, Producer: producer},
		Payments:   &httpserver.PaymentHTTP{Svc: payments, Orders: orders, Producer: producer},
		Carts:      &httpserver.CartHTTP{Svc: carts, Producer: producer},
		Deliveries: &httpserver.DeliveryHTTP{Svc: deliveries},
		Search:     searchHandler,
	})

	e.Logger.Fatal(e.Start(cfg.HTTP_ADDR))
}
