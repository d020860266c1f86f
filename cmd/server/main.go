package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"rakshak-service/config"
	"rakshak-service/internal/api"
	"rakshak-service/internal/contact"
	"rakshak-service/internal/health"
	"rakshak-service/internal/incident"
	"rakshak-service/internal/metrics"
	"rakshak-service/internal/middleware"
	"rakshak-service/internal/notify"
	"rakshak-service/internal/sos"
	"rakshak-service/internal/storage"
	"rakshak-service/internal/user"
	"rakshak-service/pkg/constants"
	"rakshak-service/pkg/consul"
	"rakshak-service/pkg/firebase"
	"rakshak-service/pkg/zap"

	fb "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	uberzap "go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.LoadConfig()

	logger, err := zap.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Consul.Enabled {
		consulConn := consul.NewConsulConn(logger, cfg)
		consulConn.Connect()
		defer consulConn.Deregister()
	}

	// The driver reconnects on its own; a failed first ping only means
	// writes are refused until the monitor sees the store again.
	mongoClient, err := connectToMongoDB(cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		logger.Fatalf("Failed to create MongoDB client: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error(err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB)

	m := metrics.New()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := m.Register(registry); err != nil {
		logger.Fatalf("Failed to register metrics: %v", err)
	}

	monitor := health.NewMonitor(mongoClient, cfg.MongoHealthInterval, 2*time.Second, m, logger)
	if err := monitor.Start(); err != nil {
		logger.Fatalf("Failed to schedule MongoDB health probe: %v", err)
	}
	defer monitor.Stop()

	ctx := context.Background()

	app, err := firebase.SetUpFireBase(ctx, cfg)
	if err != nil {
		logger.Errorf("Firebase disabled: %v", err)
		app = nil
	}

	backend, err := newBlobBackend(ctx, cfg, app)
	if err != nil {
		logger.Fatalf("Failed to initialize image storage: %v", err)
	}
	images := storage.NewImageStore(backend, int64(cfg.Storage.MaxUploadMB)<<20)

	var pusher sos.Pusher
	if app != nil {
		topicPusher, err := notify.NewTopicPusher(ctx, app, cfg.Notify.PushTopic, logger)
		if err != nil {
			logger.Errorf("FCM push disabled: %v", err)
		} else {
			pusher = topicPusher
		}
	}

	incidentRepository := incident.NewIncidentRepository(db.Collection(constants.IncidentCollection))
	contactRepository := contact.NewContactRepository(db.Collection(constants.ContactCollection))
	userRepository := user.NewUserRepository(db.Collection(constants.UserCollection))
	dispatchLogRepository := sos.NewDispatchLogRepository(db.Collection(constants.DispatchLogCollection))

	contactService := contact.NewContactService(contactRepository)

	orchestrator := sos.NewOrchestrator(
		cfg.Notify,
		incidentRepository,
		contactService,
		notify.NewSMSStub(logger),
		notify.NewWhatsAppStub(logger),
		pusher,
		dispatchLogRepository,
		m,
		logger,
	)

	incidentService := incident.NewIncidentService(
		incidentRepository,
		images,
		monitor,
		orchestrator,
		m,
		logger,
		cfg.Incident.BBoxPrefilter,
	)

	tokens := user.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService := user.NewUserService(userRepository, tokens, logger)

	c := cron.New(cron.WithSeconds())
	if cfg.Auth.SeedUsers {
		scheduleUserSeeding(c, userService, monitor, cfg.MongoTimeout, logger)
	}
	limitStore, closeLimiter := newRateLimitStore(cfg, c, logger)
	defer closeLimiter()
	c.Start()
	defer c.Stop()

	limitCfg := middleware.RateLimitConfig{Requests: cfg.Redis.RateLimit, Window: cfg.Redis.RateWindow}
	var rateLimit gin.HandlerFunc
	if err := limitCfg.Validate(); err != nil {
		logger.Warnf("Rate limiting disabled: %v", err)
	} else {
		rateLimit = middleware.RateLimit(limitStore, limitCfg, m, logger)
	}

	var uploadsDir string
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		uploadsDir = cfg.Storage.LocalDir
	}

	router := api.NewRouter(api.Handlers{
		Incident: incident.NewIncidentHandler(incidentService, cfg.Notify.DefaultTenant),
		Contact:  contact.NewContactHandler(contactService, cfg.Notify.DefaultTenant),
		SOS:      sos.NewSOSHandler(orchestrator, cfg.Notify.DefaultTenant),
		User:     user.NewUserHandler(userService),
		Health:   monitor,
	}, api.Options{
		Logger:        logger,
		Metrics:       m,
		Gatherer:      registry,
		CORSOrigin:    cfg.CORSOrigin,
		Tokens:        tokens,
		EnforceAuth:   cfg.Auth.Enforce,
		RateLimit:     rateLimit,
		UploadsDir:    uploadsDir,
		UploadsPrefix: cfg.Storage.PublicPrefix,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error shutting down server: %v", err)
	}
	if err := orchestrator.Wait(shutdownCtx); err != nil {
		logger.Warnf("SOS dispatches still running at shutdown: %v", err)
	}
	logger.Info("Server stopped")
}

func connectToMongoDB(uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetSocketTimeout(45 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Printf("MongoDB not reachable yet: %v", err)
		return client, nil
	}

	log.Println("Successfully connected to MongoDB")
	return client, nil
}

func newBlobBackend(ctx context.Context, cfg *config.Config, app *fb.App) (storage.Backend, error) {
	switch cfg.Storage.Driver {
	case "", "local":
		return storage.NewLocalBackend(cfg.Storage.LocalDir, cfg.Storage.PublicPrefix)
	case "s3":
		return storage.NewS3Backend(storage.S3Config{
			Bucket:    cfg.Storage.S3Bucket,
			Endpoint:  cfg.Storage.S3Endpoint,
			Region:    cfg.Storage.S3Region,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			PublicURL: cfg.Storage.S3PublicURL,
		})
	case "firebase":
		if app == nil {
			return nil, fmt.Errorf("storage driver firebase needs firebase.credentials_file")
		}
		return storage.NewFirebaseBackend(ctx, app, cfg.Storage.FirebaseBucket)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// scheduleUserSeeding seeds now if the store is up and otherwise retries
// from cron until one attempt succeeds.
func scheduleUserSeeding(c *cron.Cron, users user.UserService, monitor *health.Monitor, timeout time.Duration, logger *uberzap.SugaredLogger) {
	var seeded atomic.Bool
	seed := func() {
		if seeded.Load() || !monitor.Available() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := users.SeedDefaults(ctx); err != nil {
			logger.Errorf("Error initializing default users: %v", err)
			return
		}
		seeded.Store(true)
	}

	seed()
	if _, err := c.AddFunc("@every 30s", seed); err != nil {
		logger.Errorf("Failed to schedule user seeding: %v", err)
	}
}

// newRateLimitStore uses Redis when configured and an in-memory store
// swept by cron otherwise.
func newRateLimitStore(cfg *config.Config, c *cron.Cron, logger *uberzap.SugaredLogger) (middleware.RateLimitStore, func()) {
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Infof("Rate limiting backed by redis at %s", cfg.Redis.Addr)
		return middleware.NewRedisRateLimitStore(client), func() { _ = client.Close() }
	}

	store := middleware.NewInMemoryRateLimitStore()
	if _, err := c.AddFunc("0 */5 * * * *", store.Cleanup); err != nil {
		logger.Errorf("Failed to schedule rate limit cleanup: %v", err)
	}
	return store, func() {}
}
