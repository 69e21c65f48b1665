package main

import (
	"context"
	"log"
	"os"
	"time"

	"farm-market/internal/config"
	"farm-market/internal/controllers/http"
	"farm-market/internal/infra"
	"farm-market/internal/infra/database"
	"farm-market/internal/infra/mongodb"
	"farm-market/internal/infra/rabbitmq"
	mysqlrepo "farm-market/internal/repository/mysql"
	"farm-market/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	fee, _ := cfg.DeliveryFee()

	var publisher rabbitmq.PublisherInterface = rabbitmq.LogPublisher{}
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("failed to init publisher: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	orderService := services.NewOrderService(mysqlrepo.NewOrderRepository(db), publisher)
	orderService.SetDeliveryFee(fee)
	orderService.SetOrderIDPrefix(cfg.Orders.IDPrefix)
	orderService.SetCacheTTL(cfg.Redis.CacheTTL)

	catalogClient := infra.NewCatalogClient(cfg.CatalogURL, 2*time.Second)
	catalogService := services.NewCatalogService(catalogClient)
	catalogService.SetCacheTTL(cfg.Redis.CacheTTL)

	addressService := services.NewAddressService(mysqlrepo.NewAddressRepository(db))

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			DB:           cfg.Redis.DB,
			PoolSize:     200,
			MinIdleConns: 20,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer redisClient.Close()
		orderService.SetRedisClient(redisClient)
		catalogService.SetRedisClient(redisClient)
	}

	if cfg.Mongo.URI != "" {
		client, err := mongodb.Connect(context.Background(), cfg.Mongo.URI)
		if err != nil {
			log.Printf("mongo: status history disabled: %v", err)
		} else {
			defer client.Disconnect(context.Background())
			history := mongodb.NewStatusHistory(client, cfg.Mongo.Database, cfg.Mongo.Collection)
			if err := history.EnsureIndexes(context.Background()); err != nil {
				log.Printf("mongo: %v", err)
			}
			orderService.SetHistory(history)
		}
	}

	if cfg.CatalogURL != "" {
		go func() {
			time.Sleep(5 * time.Second)
			ctx := context.Background()
			products, err := catalogClient.ListProducts(ctx)
			if err != nil {
				log.Printf("Failed to warm up cache: %v", err)
				return
			}
			ids := make([]uint64, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			if err := catalogService.WarmupProductCache(ctx, ids); err != nil {
				log.Printf("Failed to warm up cache: %v", err)
			} else {
				log.Println("Cache warmed up successfully")
			}
		}()
	}

	handler := http.NewHandler(orderService, addressService, catalogService)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	handler.RegisterRoutes(r)

	log.Printf("Starting market service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", infra.HeaderUserEmail, infra.HeaderUserRole},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
