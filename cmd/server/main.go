package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/auth"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/authz"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/config"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/database"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/events"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/handlers"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/logging"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/notifications"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/notifier"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/payment"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/repository"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()
	logCloser := logging.Setup(cfg)
	defer logCloser.Close()

	// Connect to Database
	db := database.Connect(cfg)
	loc := cfg.Location()
	clock := calendar.RealClock{}

	var cache repository.Cache = repository.NewMemoryCache(cfg.CacheTTL)
	if cfg.RedisURL != "" {
		redisCache, err := repository.NewRedisCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logrus.WithError(err).Warn("Redis cache not initialized, using in-process cache")
		} else {
			defer redisCache.Close()
			cache = redisCache
		}
	}

	propertyRepo := repository.NewPropertyRepository(db, cache)
	bookingRepo := repository.NewBookingRepository(db)
	userRepo := repository.NewUserRepository(db)

	authorizer, err := authz.New()
	if err != nil {
		logrus.Fatalf("Failed to load access policy: %v", err)
	}

	// Initialize Notifiers
	var channels notifier.Multi
	if cfg.DiscordBotToken != "" && cfg.DiscordNotificationsChannelID != "" {
		session, err := notifier.NewDiscordSession(cfg.DiscordBotToken)
		if err != nil {
			logrus.WithError(err).Warn("Discord notifier not initialized")
		} else {
			defer session.Close()
			channels = append(channels, notifier.WithBreaker("discord", notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)))
		}
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		telegram, err := notifier.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			logrus.WithError(err).Warn("Telegram notifier not initialized")
		} else {
			channels = append(channels, notifier.WithBreaker("telegram", telegram))
		}
	}
	if cfg.SMTPHost != "" && cfg.MailFrom != "" {
		channels = append(channels, notifier.WithBreaker("mail", notifier.NewMailNotifier(cfg)))
	}
	logrus.WithField("channels", len(channels)).Info("Notifiers configured")

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logrus.WithError(err).Warn("Event publisher not initialized")
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
		}
	}

	bookingService := service.NewBookingService(
		propertyRepo,
		bookingRepo,
		payment.NewQRBuilder(cfg),
		notifier.NewAsync(channels, 10*time.Second),
		publisher,
		clock,
		loc,
	)
	propertyService := service.NewPropertyService(propertyRepo, bookingRepo, clock, loc)
	userService := service.NewUserService(userRepo, bookingRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := notifications.NewPoller(bookingRepo, clock, loc, cfg.ImminentDays)
	poller.Start(ctx, cfg.NotifyPollInterval)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, userRepo, authorizer)
	r := chi.NewRouter()
	corsOrigin := ""
	if cfg.EnableCORS {
		corsOrigin = cfg.FrontendURL
	}
	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:          authHandler,
		Properties:    handlers.NewPropertyHandler(propertyService, authHandler),
		Bookings:      handlers.NewBookingHandler(bookingService, authHandler),
		AdminBookings: handlers.NewAdminBookingHandler(bookingService, authHandler),
		Notifications: handlers.NewNotificationHandler(poller, authHandler),
		Users:         handlers.NewUserHandler(userService, authHandler),
		APIKeys:       handlers.NewAPIKeyHandler(userService, authHandler),
	}, corsOrigin)

	// Start Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
}
