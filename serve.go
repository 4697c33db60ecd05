package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"fuko-store/analytics"
	"fuko-store/config"
	"fuko-store/controllers"
	"fuko-store/events"
	"fuko-store/metrics"
	"fuko-store/middleware"
	"fuko-store/models"
	"fuko-store/routes"
	"fuko-store/services"
	"fuko-store/store"
	"fuko-store/utils"
)

const shutdownTimeout = 10 * time.Second

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)
	controllers.RequestTimeout = cfg.RequestTimeout

	ctx := c.Context
	db, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.MigrateUp(); err != nil {
		return err
	}

	// Connect to MongoDB
	client, err := store.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("Failed to disconnect from MongoDB")
		}
	}()

	var settingsRepo models.SettingsRepository
	switch cfg.SettingsBackend {
	case "pebble":
		pebbleStore, err := store.NewPebbleSettingsStore(cfg.PebbleDir)
		if err != nil {
			return err
		}
		defer pebbleStore.Close()
		settingsRepo = pebbleStore
	default:
		settingsRepo = store.NewMongoSettingsStore(client, cfg.MongoDatabase)
	}

	registry := metrics.NewRegistry()
	orderStore := store.NewOrderStore(db)
	productStore := store.NewProductStore(db)
	reporter := analytics.NewReporter(analytics.OrderListerFunc(orderStore.List))

	dispatcher := events.Multi{events.LogDispatcher{}, registry, reporter}
	if len(cfg.KafkaBrokers) > 0 {
		kafka := events.NewKafkaDispatcher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafka.Close()
		dispatcher = append(dispatcher, kafka)
	}
	if emailService := utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender); emailService != nil && cfg.AdminEmail != "" {
		dispatcher = append(dispatcher, events.NewEmailNotifier(emailService, cfg.AdminEmail))
	}

	orders := services.NewOrderService(orderStore, dispatcher, services.WithStrictTransitions(cfg.StrictOrderTransitions))
	catalog := services.NewCatalogService(productStore)
	profiles := services.NewProfileService(store.NewUserStore(db))
	carts := services.NewCartService(store.NewMongoCartStore(client, cfg.MongoDatabase), productStore)
	checkout := services.NewCheckoutService(orders, profiles, carts, services.UPIConfig{
		PayeeID:   cfg.UPIPayeeID,
		PayeeName: cfg.UPIPayeeName,
	})
	settings := services.NewSettingsService(settingsRepo)

	// Set up the router
	router := mux.NewRouter()
	router.Use(middleware.LogMiddleware(registry))
	routes.RegisterRoutes(router, routes.Controllers{
		Auth:      controllers.NewAuthController(newVerifier(cfg), profiles, registry, cfg.SessionTTL, cfg.AdminTTL, cfg.AdminPINHash),
		User:      controllers.NewUserController(profiles),
		Product:   controllers.NewProductController(catalog),
		Cart:      controllers.NewCartController(carts),
		Checkout:  controllers.NewCheckoutController(checkout, cfg.UploadDir),
		Order:     controllers.NewOrderController(orders),
		Settings:  controllers.NewSettingsController(settings),
		Analytics: controllers.NewAnalyticsController(orders, reporter),
		Dashboard: controllers.NewDashboardController(orders, catalog),
		Health:    healthHandler(db),
		Metrics:   registry.Handler(),
		UploadDir: cfg.UploadDir,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	killSignalChan := make(chan os.Signal, 1)
	signal.Notify(killSignalChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errc:
		return errors.Wrap(err, "server failed")
	case sig := <-killSignalChan:
		log.WithField("signal", sig.String()).Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newVerifier picks the OTP provider the configuration allows
func newVerifier(cfg *config.Config) services.OTPVerifier {
	var verifier services.OTPVerifier = services.UnconfiguredVerifier{}
	if cfg.TwilioConfigured() {
		verifier = services.NewTwilioVerifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioVerifyServiceSID, cfg.OTPChannel, cfg.PhoneCountryPrefix)
	} else {
		log.Warn("Twilio Verify is not configured. OTP login is unavailable.")
	}
	if cfg.OTPDevBypass {
		verifier = services.NewDevBypassVerifier(verifier, cfg.OTPDevBypassPhone, cfg.OTPDevBypassCode)
	}
	return verifier
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
	Driver() string
}

func healthHandler(db healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.HealthCheck(ctx); err != nil {
			log.WithError(err).Warn("Health check failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "database": db.Driver()})
	}
}
