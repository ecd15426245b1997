package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medimarket/config"
	deliveryHttp "medimarket/internal/delivery/http"
	"medimarket/internal/delivery/http/handler"
	"medimarket/internal/delivery/http/middleware"
	"medimarket/internal/domain/port"
	"medimarket/internal/infrastructure/cache"
	"medimarket/internal/infrastructure/database"
	"medimarket/internal/infrastructure/messaging"
	"medimarket/internal/infrastructure/payment"
	"medimarket/internal/infrastructure/realtime"
	"medimarket/internal/infrastructure/search"
	"medimarket/internal/repository"
	"medimarket/internal/service"
	"medimarket/internal/usecase"
	"medimarket/pkg/jwt"
	"medimarket/pkg/signature"
	"medimarket/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	kafkaPublisher *messaging.KafkaPublisher
	hub            *realtime.Hub
	relay          *realtime.Relay
	searchSync     *service.SearchSyncService
}

// adapters are the outbound integrations. Optional ones fall back to no-ops.
type adapters struct {
	gateway   port.PaymentGateway
	publisher port.EventPublisher
	searcher  port.MedicineSearcher
	notifier  port.MedicineChangeNotifier
	cache     port.IdentityCache
	denylist  port.TokenDenylist
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App)
	app.Log = log
	log.Info("Configuration loaded successfully")

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	app.DB = db

	if cfg.DB.MigrateOnStart {
		if err := database.Migrate(db, log); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.RedisClient = redisClient

	app.hub = realtime.NewHub(log)
	app.relay = realtime.NewRelay(redisClient, cfg.Realtime.Channel, app.hub, log)

	ad := app.initializeAdapters(cfg, redisClient)
	app.Server = app.initializeServer(cfg, db, ad)

	return app, nil
}

// setupLogger configures the process-wide logrus logger
func setupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func (app *App) initializeAdapters(cfg *config.Config, redisClient *redis.Client) adapters {
	log := app.Log
	ad := adapters{
		gateway:   payment.NewRazorpayGateway(cfg.Payment),
		publisher: port.NopEventPublisher{},
		searcher:  port.NopMedicineSearcher{},
		notifier:  realtime.NewRedisNotifier(redisClient, cfg.Realtime.Channel),
		cache:     cache.NewIdentityCache(redisClient, cfg.Cache.IdentityTTL),
		denylist:  cache.NewTokenDenylist(redisClient),
	}

	if len(cfg.Kafka.Brokers) > 0 {
		app.kafkaPublisher = messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.Kafka))
		ad.publisher = app.kafkaPublisher
		log.Infof("Publishing order events to %s", cfg.Kafka.Topic)
	} else {
		log.Info("Kafka brokers not configured, order events are dropped")
	}

	if cfg.Search.URL != "" {
		esClient, err := search.NewClient(cfg.Search, log)
		if err != nil {
			log.Warnf("Failed to connect to Elasticsearch, falling back to database search: %+v", err)
		} else {
			ad.searcher = search.NewMedicineIndex(esClient, cfg.Search.Index)
		}
	} else {
		log.Info("Search URL not configured, using database search")
	}

	return ad
}

// initializeServer wires repositories, usecases and handlers into the HTTP server
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, ad adapters) *http.Server {
	log := app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.Auth)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	medicineRepo := repository.NewMedicineRepository()
	cartRepo := repository.NewCartRepository()
	orderRepo := repository.NewOrderRepository()
	agentRepo := repository.NewDeliveryAgentRepository()
	transactionRepo := repository.NewFinanceTransactionRepository()
	receiptRepo := repository.NewReceiptRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	app.searchSync = service.NewSearchSyncService(db, log, medicineRepo, ad.searcher)

	// Initialize usecases
	identityUsecase := usecase.NewIdentityUsecase(db, log, userRepo, patientProfileRepo, ad.cache, ad.denylist)
	medicineUsecase := usecase.NewMedicineUsecase(db, log, medicineRepo, auditService, ad.searcher, ad.notifier)
	cartUsecase := usecase.NewCartUsecase(db, log, cartRepo, medicineRepo)
	checkoutUsecase := usecase.NewCheckoutUsecase(db, log, userRepo, cartRepo, medicineRepo, orderRepo, ad.publisher, ad.notifier)
	paymentUsecase := usecase.NewPaymentUsecase(db, log, userRepo, cartRepo, medicineRepo, orderRepo, transactionRepo, receiptRepo,
		ad.gateway, signature.NewVerifier(cfg.Payment.KeySecret), ad.publisher, ad.notifier, cfg.Payment.Currency)
	orderUsecase := usecase.NewOrderUsecase(db, log, orderRepo)
	deliveryUsecase := usecase.NewDeliveryUsecase(db, log, orderRepo, agentRepo, auditService, ad.publisher)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Health:   handler.NewHealthHandler(db),
		Identity: handler.NewIdentityHandler(identityUsecase),
		Medicine: handler.NewMedicineHandler(medicineUsecase, customValidator, app.hub),
		Cart:     handler.NewCartHandler(cartUsecase, customValidator),
		Checkout: handler.NewCheckoutHandler(checkoutUsecase, customValidator),
		Payment:  handler.NewPaymentHandler(paymentUsecase, customValidator),
		Order:    handler.NewOrderHandler(orderUsecase),
		Delivery: handler.NewDeliveryHandler(deliveryUsecase, customValidator),
		AuditLog: handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, identityUsecase, log)
	corsMiddleware := middleware.NewCORSMiddleware()
	observabilityMiddleware := middleware.NewObservabilityMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, observabilityMiddleware)

	// Create server
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run serves HTTP and relays realtime changes until SIGINT/SIGTERM, then shuts down gracefully
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return app.relay.Run(gctx)
	})

	g.Go(func() error {
		// A stale index only degrades search to the database fallback.
		if err := app.searchSync.SyncOnStartup(gctx); err != nil {
			app.Log.Warnf("Failed to reindex medicines (non-fatal): %+v", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		app.hub.Close()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			app.Log.Errorf("Server forced to shutdown: %v", err)
		}
		return nil
	})

	err := g.Wait()
	app.Close()
	app.Log.Info("Server shutdown complete")
	return err
}

// Close closes all connections (database, redis, kafka)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				app.Log.Warnf("Failed to close database: %v", err)
			}
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Log.Warnf("Failed to close Redis: %v", err)
		}
	}

	// Flush and close the Kafka writer
	if app.kafkaPublisher != nil {
		if err := app.kafkaPublisher.Close(); err != nil {
			app.Log.Warnf("Failed to close Kafka writer: %v", err)
		}
	}
}
