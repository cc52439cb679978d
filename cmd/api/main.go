package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"styledecor/internal/checkout"
	"styledecor/internal/config"
	"styledecor/internal/database"
	"styledecor/internal/events"
	"styledecor/internal/middleware"
	"styledecor/internal/modules/admin"
	"styledecor/internal/modules/booking"
	"styledecor/internal/modules/catalog"
	"styledecor/internal/modules/decorator"
	"styledecor/internal/modules/payment"
	"styledecor/internal/modules/user"
	jwtsvc "styledecor/internal/pkg/jwt"
	"styledecor/internal/pkg/lock"
	"styledecor/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}
	tx := database.NewTransactor(db)

	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	decoratorRepo := repository.NewDecoratorRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	guard := middleware.NewRoleGuard(userRepo)

	hub := events.NewHub(append([]string{cfg.ClientURL}, cfg.CORSAllowedOrigins...)...)
	defer hub.Close()
	publisher := events.Multi{hub}
	if cfg.RabbitURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			log.Printf("level=warn msg=rabbitmq unavailable, events stay local err=%v", err)
		} else {
			defer amqpPub.Close()
			publisher = append(publisher, amqpPub)
			log.Printf("level=info msg=publishing events exchange=%s", cfg.EventsExchange)
		}
	}

	if cfg.TelegramBotToken != "" {
		tg, err := events.NewTelegramPublisher(cfg.TelegramBotToken, cfg.TelegramChannel)
		if err != nil {
			log.Printf("level=warn msg=telegram notifier disabled err=%v", err)
		} else {
			publisher = append(publisher, tg)
		}
	}

	var provider checkout.Provider = checkout.Unconfigured{}
	if cfg.CheckoutEnabled() {
		omiseProvider, err := checkout.NewOmiseProvider(cfg.OmisePublicKey, cfg.OmiseSecretKey, cfg.OmiseSourceType)
		if err != nil {
			log.Fatal(err)
		}
		provider = omiseProvider
	} else {
		log.Println("level=warn msg=OMISE keys not set, checkout endpoints will answer 502")
	}

	var settleLock payment.Locker
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		settleLock = lock.NewLocker(rdb, cfg.SettlementLockTTL)
	}

	userHandler := user.NewHandler(user.NewService(userRepo, log.Printf))
	catalogHandler := catalog.NewHandler(catalog.NewService(serviceRepo))
	decoratorHandler := decorator.NewHandler(decorator.NewService(decoratorRepo, userRepo, tx, publisher, log.Printf))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, decoratorRepo, serviceRepo, tx, publisher, log.Printf))
	paymentService := payment.NewService(provider, paymentRepo, bookingRepo, tx, settleLock, publisher,
		payment.Options{ClientURL: cfg.ClientURL, Currency: cfg.CheckoutCurrency}, log.Printf)
	paymentHandler := payment.NewHandler(paymentService, log.Printf)
	adminHandler := admin.NewHandler(admin.NewService(bookingRepo, hub))
	eventsHandler := events.NewHandler(hub, tokens)

	r := gin.New()
	r.Use(gin.Logger(), middleware.RequestID(), middleware.ErrorLogger(), middleware.CORS(cfg.ClientURL, cfg.CORSAllowedOrigins))

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "server running fine") })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// public
	userHandler.RegisterPublicRoutes(r)
	catalogHandler.RegisterPublicRoutes(r)
	decoratorHandler.RegisterPublicRoutes(r)
	paymentHandler.RegisterPublicRoutes(r)
	eventsHandler.RegisterRoutes(r)

	protected := r.Group("", middleware.Authenticate(tokens), guard.WithRole())
	userHandler.RegisterProtectedRoutes(protected)
	decoratorHandler.RegisterProtectedRoutes(protected)
	bookingHandler.RegisterProtectedRoutes(protected)
	paymentHandler.RegisterProtectedRoutes(protected)

	decorators := r.Group("", middleware.Authenticate(tokens), guard.DecoratorOnly())
	bookingHandler.RegisterDecoratorRoutes(decorators)

	admins := r.Group("", middleware.Authenticate(tokens), guard.AdminOnly())
	catalogHandler.RegisterAdminRoutes(admins)
	decoratorHandler.RegisterAdminRoutes(admins)
	bookingHandler.RegisterAdminRoutes(admins)
	adminHandler.RegisterRoutes(admins)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("level=info msg=styledecor api listening addr=%s env=%s", cfg.HTTPAddr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("level=info msg=shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("level=error msg=graceful shutdown failed err=%v", err)
	}
}
