package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"ms-coupons/internal/admin"
	admin_api "ms-coupons/internal/admin/api"
	"ms-coupons/internal/auth"
	"ms-coupons/internal/config"
	"ms-coupons/internal/database"
	"ms-coupons/internal/events"
	events_db "ms-coupons/internal/events/db"
	"ms-coupons/internal/events/event_api"
	"ms-coupons/internal/guests"
	guests_db "ms-coupons/internal/guests/db"
	"ms-coupons/internal/guests/guest_api"
	guestlock "ms-coupons/internal/guests/redis"
	"ms-coupons/internal/kafka"
	"ms-coupons/internal/logger"
	"ms-coupons/internal/orders"
	orders_db "ms-coupons/internal/orders/db"
	"ms-coupons/internal/orders/order_api"
	"ms-coupons/internal/sse"
	"ms-coupons/internal/users"
	users_db "ms-coupons/internal/users/db"
	"ms-coupons/internal/users/user_api"
)

func verifyRedis(ctx context.Context, addr string, log *logger.Logger) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", addr))
	return redisClient
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Coupon Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	secret := []byte(cfg.Auth.JWTSecret)
	ctx := context.Background()

	log.Info("APP", "Verifying database connections")
	mongoDB, err := database.Connect(ctx, cfg.Mongo, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("MongoDB connection error: %v", err))
	}
	defer mongoDB.Client().Disconnect(ctx)

	redisClient := verifyRedis(ctx, cfg.Redis.Addr, log)
	defer redisClient.Close()

	var kafkaPublisher orders.KafkaPublisher
	if cfg.Kafka.Enabled {
		log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()

		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, kafka.DefaultTopics()); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
		kafkaPublisher = producer
	} else {
		log.Warn("KAFKA", "Kafka disabled, order events will not be streamed")
	}

	// Stores
	eventsDB := &events_db.DB{Mongo: mongoDB}
	guestsDB := &guests_db.DB{Mongo: mongoDB}
	ordersDB := &orders_db.DB{Mongo: mongoDB}
	usersDB := &users_db.DB{Mongo: mongoDB}

	// Notification fan-out and per-guest locks
	notifier := sse.NewNotifier()
	lock := guestlock.NewLock(redisClient, cfg.Orders.GuestLockTTL)

	// Services
	eventService := events.NewEventService(eventsDB, guestsDB, cfg.Client.BaseURL)
	orderService := orders.NewOrderService(ordersDB, guestsDB, notifier, kafkaPublisher, log, cfg.Orders.DuplicatePolicy)
	guestService := guests.NewGuestService(guestsDB, eventsDB, ordersDB, lock, secret, cfg.Auth.TokenTTL)
	userService := users.NewUserService(usersDB, secret, cfg.Auth.TokenTTL)
	adminService := admin.NewService(eventsDB, guestsDB, orderService)

	// Handlers
	eventHandler := event_api.NewHandler(eventService, log)
	guestHandler := guest_api.NewHandler(guestService, log)
	orderHandler := order_api.NewHandler(orderService, log)
	userHandler := user_api.NewHandler(userService, secret, log)
	adminHandler := admin_api.NewHandler(adminService, log)
	sseHandler := order_api.NewSSEHandler(log, notifier)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Client.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// --- Public Routes ---
		r.Post("/users/register", userHandler.Register)
		r.Post("/users/login", userHandler.Login)
		r.Get("/events/{id}", eventHandler.GetEvent)
		r.Post("/guests/register", guestHandler.RegisterGuest)
		r.Post("/guests/login", guestHandler.LoginGuest)
		r.Get("/guests/{guestId}/coupons", guestHandler.GetCoupons)
		r.Get("/guests/{guestId}/dashboard", guestHandler.GetDashboard)
		r.Get("/guests/{guestId}/notifications", sseHandler.HandleGuestNotifications)
		r.Post("/orders", orderHandler.PlaceOrder)
		log.Info("ROUTER", "Public routes registered under /api")

		// --- Admin Routes ---
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(secret))
			r.Use(auth.RequireAdmin)
			log.Info("AUTH", "JWT middleware applied to admin API routes")

			r.Post("/events", eventHandler.CreateEvent)
			r.Get("/events", eventHandler.ListEvents)
			r.Delete("/events/{id}", eventHandler.DeleteEvent)
			r.Put("/events/{eventId}/guests/add", eventHandler.AddGuest)
			r.Put("/events/{eventId}/guests/remove", eventHandler.RemoveGuest)
			log.Info("ROUTER", "Event routes registered under /api/events")

			r.Put("/guests/{guestId}/toggle-claimed", guestHandler.ToggleClaimed)
			r.Put("/guests/{guestId}/claim-cocktail", guestHandler.ClaimCocktail)

			r.Get("/orders/pending", orderHandler.GetPendingOrders)
			r.Put("/orders/{orderId}/complete", orderHandler.CompleteOrder)
			log.Info("ROUTER", "Order routes registered under /api/orders")

			r.Get("/admin/notifications", sseHandler.HandleAdminNotifications)
			adminHandler.RegisterRoutes(r)
			log.Info("ROUTER", "Admin routes registered under /api/admin")
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Coupon Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "Coupon Service shutdown complete")
	}
}
