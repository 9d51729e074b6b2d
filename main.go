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
	"github.com/stripe/stripe-go/v76"

	"movecall/config"
	"movecall/cron"
	"movecall/database"
	bookingRepo "movecall/database/repository/booking"
	callrecordRepo "movecall/database/repository/callrecord"
	"movecall/handlers"
	"movecall/routes"
	"movecall/services/availability"
	bookingsvc "movecall/services/booking"
	"movecall/services/calendar"
	"movecall/services/callflow"
	"movecall/services/distance"
	"movecall/services/extractor"
	"movecall/services/notification"
	"movecall/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	ctx := context.Background()

	// Repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	if err := bookings.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	callRecords := callrecordRepo.NewMongoCallRecordRepo()
	if err := callRecords.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure call record indexes: %v", err)
	}

	// Availability spans our booking ledger plus every configured crew
	// calendar.
	stores := []availability.ScheduleStore{&availability.BookingLedgerStore{Repo: bookings}}
	var calendarMirror bookingsvc.CalendarMirror
	if crews := calendar.ParseCrewCalendars(config.AppConfig.CrewCalendarIDs); len(crews) > 0 {
		calSvc, err := calendar.NewService(ctx, config.AppConfig.GoogleCredentialsFile, crews,
			time.Duration(config.AppConfig.CalendarTimeoutMS)*time.Millisecond, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize calendar service: %v", err)
		}
		for _, store := range calSvc.Stores() {
			stores = append(stores, store)
		}
		calendarMirror = calSvc
	} else {
		logger.Warn("no crew calendars configured; availability uses the booking ledger only")
	}
	checker := availability.NewChecker(logger, stores...)

	// Notification pipeline: enqueue to the worker, send directly as the
	// fallback.
	mailer := utils.NewMailer()
	sms := notification.NewTwilioSMS()
	sender := notification.NewService(mailer, sms, logger)
	queue := asynq.NewClient(cron.QueueRedisOpt())
	defer queue.Close()
	var payments notification.PaymentLinker
	if config.AppConfig.StripeKey != "" {
		payments = notification.NewStripeLinker()
	}
	dispatcher := notification.NewDispatcher(queue, sender, payments, logger)
	worker := cron.StartWorker(sender)
	defer worker.Shutdown()

	coordinator := bookingsvc.NewCoordinator(bookings, checker, calendarMirror, dispatcher, logger)

	// Call-flow engine.
	var nlu extractor.NLUClient
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		client, err := extractor.NewGeminiClient(ctx, key)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize Gemini client: %v", err)
		}
		nlu = client
	} else {
		logger.Warn("no Gemini key configured; extraction uses deterministic fallback only")
	}
	fields := extractor.New(nlu, 5*time.Second, logger)
	distances := distance.NewService(config.AppConfig.GoogleAPIKey, utils.GetCacheClient(), logger)

	sessions := callflow.NewSessionManager(
		time.Duration(config.AppConfig.SessionTTLMinutes)*time.Minute, logger)
	defer sessions.Close()

	engine := callflow.NewEngine(sessions, fields, distances, checker, coordinator,
		dispatcher, sms, callRecords,
		callflow.Config{
			TransferNumber:  config.AppConfig.TransferNumber,
			BookingLinkURL:  config.AppConfig.BookingLinkURL,
			StageRetries:    config.AppConfig.StageRetryBudget,
			ExtractFailures: config.AppConfig.ExtractRetryBudget,
		}, logger)
	sessions.StartJanitor(time.Minute, engine.OnSessionExpired)

	// HTTP surface.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	voiceHandler := handlers.NewVoiceHandler(engine, logger)
	bookingHandler := handlers.NewBookingHandler(bookings, callRecords, checker, dispatcher, logger)
	routes.RegisterVoiceRoutes(router, voiceHandler)
	routes.RegisterAPIRoutes(router, bookingHandler)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
