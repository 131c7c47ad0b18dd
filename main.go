package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"astrodesk/config"
	"astrodesk/database"
	articleRepo "astrodesk/database/repository/article"
	bookingRepo "astrodesk/database/repository/booking"
	orderRepo "astrodesk/database/repository/order"
	productRepo "astrodesk/database/repository/product"
	"astrodesk/handlers"
	"astrodesk/routes"
	"astrodesk/services/auth"
	"astrodesk/services/booking"
	"astrodesk/services/catalog"
	"astrodesk/services/content"
	"astrodesk/services/mail"
	"astrodesk/services/notification"
	"astrodesk/services/storage"
	"astrodesk/utils"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger, err := utils.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Firebase is only initialized when a component needs it.
	var app *firebase.App
	if cfg.DocumentStore == config.DocumentStoreFirestore || cfg.AssetStore == config.AssetStoreFirebase || cfg.FCMAdminTopic != "" {
		app, err = utils.NewFirebaseApp(ctx, cfg)
		if err != nil {
			logger.Fatal("main: failed to initialize firebase", zap.Error(err))
		}
	}

	db, err := database.Open(ctx, cfg, app)
	if err != nil {
		logger.Fatal("main: failed to open document store", zap.String("store", cfg.DocumentStore), zap.Error(err))
	}
	logger.Info("Document store connected", zap.String("store", db.Name()))

	assets, err := storage.New(ctx, cfg, app)
	if err != nil {
		logger.Fatal("main: failed to initialize asset store", zap.String("store", cfg.AssetStore), zap.Error(err))
	}

	cacheClient, err := utils.NewCacheClient(ctx, cfg)
	if err != nil {
		// The listing cache is optional; serve straight from the store.
		logger.Warn("main: product cache disabled", zap.Error(err))
		cacheClient = nil
	}

	verifier, err := auth.NewVerifier(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		logger.Fatal("main: invalid admin credentials", zap.Error(err))
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		logger.Warn("main: no admin password configured, admin endpoints will reject every request")
	}

	// repositories.
	bookings := bookingRepo.NewBookingRepo(db)
	products := productRepo.NewProductRepo(db)
	orders := orderRepo.NewOrderRepo(db)
	articles := articleRepo.NewArticleRepo(db)

	if err := bookings.EnsureIndexes(ctx); err != nil {
		logger.Warn("main: could not enforce one booking per day in the store", zap.Error(err))
	}

	// services.
	composer := mail.NewComposer(cfg.ConsultationName, cfg.AdminEmail)
	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		From:     cfg.MailFrom,
		Timeout:  cfg.MailTimeout,
	})
	var notifyOpts []notification.Option
	if cfg.FCMAdminTopic != "" {
		fcm, err := app.Messaging(ctx)
		if err != nil {
			logger.Warn("main: admin push disabled", zap.Error(err))
		} else {
			notifyOpts = append(notifyOpts, notification.WithAdminPush(fcm, cfg.FCMAdminTopic))
		}
	}
	notifier, err := notification.NewDefaultNotificationService(composer, sender, cfg.MailTimeout, logger.Named("notify"), notifyOpts...)
	if err != nil {
		logger.Fatal("main: failed to initialize notifications", zap.Error(err))
	}

	var listingCache catalog.ListingCache = catalog.NoopListingCache{}
	if cacheClient != nil {
		listingCache = catalog.NewRedisListingCache(cacheClient, cfg.ProductCacheTTL)
	}

	bookingService := booking.NewDefaultBookingService(bookings, notifier, logger.Named("booking"))
	catalogService := catalog.NewDefaultCatalogService(products, orders, assets, verifier, notifier, listingCache, logger.Named("catalog"))
	articleService := content.NewDefaultArticleService(articles, assets, verifier, logger.Named("content"))

	healthTargets := map[string]utils.Pinger{"database": db}
	if cacheClient != nil {
		healthTargets["cache"] = utils.CachePinger(cacheClient)
	}
	monitor := utils.NewHealthMonitor(healthTargets, 30*time.Second)
	monitor.Start(ctx)

	handlerBundle := &handlers.HandlerBundle{
		Booking:  handlers.NewBookingHandler(bookingService),
		Catalog:  handlers.NewCatalogHandler(catalogService),
		Admin:    handlers.NewAdminHandler(catalogService),
		Articles: handlers.NewArticleHandler(articleService),
		Health:   &handlers.HealthHandler{Monitor: monitor},
	}
	router := routes.NewRouter(cfg, logger, handlerBundle)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("assets", assets.Name()))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	// Teardown in reverse order of construction.
	notifier.Close()
	if err := assets.Close(); err != nil {
		logger.Warn("main: asset store close failed", zap.Error(err))
	}
	if cacheClient != nil {
		if err := cacheClient.Close(); err != nil {
			logger.Warn("main: cache close failed", zap.Error(err))
		}
	}
	if err := db.Close(shutdownCtx); err != nil {
		logger.Warn("main: document store close failed", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
