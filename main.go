package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"serviqo/config"
	"serviqo/cron"
	"serviqo/database"
	bookingRepoPkg "serviqo/database/repository/booking"
	requestRepoPkg "serviqo/database/repository/request"
	slotRepoPkg "serviqo/database/repository/slot"
	"serviqo/handlers"
	"serviqo/routes"
	"serviqo/services/booking"
	"serviqo/services/notification"
	"serviqo/services/quote"
	"serviqo/services/schedule"
	"serviqo/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	requestRepo := requestRepoPkg.NewMongoRequestRepo()

	for _, ensure := range []func() error{
		slotRepo.EnsureIndexes,
		bookingRepo.EnsureIndexes,
		requestRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}

	// Event publishing rides the asynq queue; the worker drains it below.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventQueueDB,
	})
	defer asynqClient.Close()
	publisher := notification.NewAsynqPublisher(asynqClient, logger)

	// services.
	scheduleService := &schedule.DefaultScheduleService{
		Slots:    slotRepo,
		Bookings: bookingRepo,
		Cache:    utils.GetCacheClient(),
		Logger:   logger,
	}

	bookingService := &booking.DefaultBookingEngine{
		Repo:      bookingRepo,
		Slots:     slotRepo,
		Publisher: publisher,
		Logger:    logger,
	}

	quoteService := &quote.DefaultQuoteService{
		Repo:      requestRepo,
		Booking:   bookingService,
		Numbers:   bookingRepo,
		Publisher: publisher,
		Logger:    logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Schedule: handlers.NewScheduleHandler(scheduleService, logger),
		Booking:  handlers.NewBookingHandler(bookingService, logger),
		Request:  handlers.NewRequestHandler(quoteService, logger),
	}

	routes.RegisterRoutes(router, handlerBundle)

	go cron.InitEventWorker(&notification.LoggingNotifier{Logger: logger})

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
