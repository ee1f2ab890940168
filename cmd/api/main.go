package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kadm"

	"expirytracker/docs"
	"expirytracker/internal/config"
	"expirytracker/internal/database"
	"expirytracker/internal/database/migration"
	"expirytracker/internal/delivery"
	handlers "expirytracker/internal/http/handler"
	"expirytracker/internal/http/middleware"
	"expirytracker/internal/ledger"
	"expirytracker/internal/logger"
	"expirytracker/internal/model"
	"expirytracker/internal/otel"
	"expirytracker/internal/redis"
	"expirytracker/internal/reminder"
	"expirytracker/internal/repository"
	"expirytracker/internal/repository/postgres"
	"expirytracker/internal/scheduler"
	"expirytracker/internal/search"
	"expirytracker/internal/service"
	"expirytracker/internal/storage"
)

// @title Document Expiry Tracker API
// @version 1.0
// @description Tracks personal documents and sends threshold reminders before they expire.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	log := logger.New("expirytracker", loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Str("event", "tracing_init_failed").Send()
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database, reg)
	if err != nil {
		log.Fatal().Err(err).Str("event", "db_connect_failed").Send()
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal().Err(err).Str("event", "db_migration_failed").Send()
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Str("event", "redis_connect_failed").Send()
	}
	var universal goredis.UniversalClient
	if rdb != nil {
		defer rdb.Close()
		universal = rdb.Client
	}

	reminderLedger, ledgerCloser, err := ledger.Open(ctx, cfg.Ledger, db, universal)
	if err != nil {
		log.Fatal().Err(err).Str("event", "ledger_open_failed").Str("driver", cfg.Ledger.Driver).Send()
	}
	defer ledgerCloser.Close()
	log.Info().Str("event", "ledger_ready").Str("driver", cfg.Ledger.Driver).Send()

	reminderMetrics, err := reminder.NewMetrics(reg)
	if err != nil {
		log.Fatal().Err(err).Str("event", "metrics_init_failed").Send()
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Str("event", "metrics_init_failed").Send()
	}

	// Initialize repositories
	docRepo := postgres.NewDocumentPostgres(db)
	prefRepo := postgres.NewPreferencePostgres(db)
	notifRepo := postgres.NewNotificationPostgres(db)

	deliverers := delivery.Fanout{delivery.NewInbox(notifRepo)}
	if closeKafka := setupKafka(ctx, cfg.Kafka, log, &deliverers); closeKafka != nil {
		defer closeKafka()
	}

	engine := reminder.NewEngine(reminderLedger, deliverers, loc, log, reminderMetrics,
		reminder.WithDeliveryTimeout(cfg.Reminder.DeliveryTimeout))

	index, err := search.Open(cfg.Search.IndexPath)
	if err != nil {
		log.Fatal().Err(err).Str("event", "search_index_open_failed").Send()
	}
	defer index.Close()
	if err := rebuildSearchIndex(ctx, docRepo, index); err != nil {
		log.Error().Err(err).Str("event", "search_reindex_failed").Send()
	} else if n, err := index.Count(); err == nil {
		log.Info().Str("event", "search_index_ready").Uint64("documents", n).Send()
	}

	// Object storage only receives ledger exports; the service runs without it.
	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		objStore, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			log.Fatal().Err(err).Str("event", "object_storage_init_failed").Send()
		}
	}

	prefSvc := service.NewPreferenceService(prefRepo)
	reminderSvc := service.NewReminderService(docRepo, prefSvc, engine, cfg.Reminder.SweepConcurrency, log)
	ledgerSvc := service.NewLedgerService(reminderLedger, objStore, loc, log)
	services := handlers.Services{
		Documents:     service.NewDocumentService(docRepo, index, reminderSvc, loc, log),
		Preferences:   prefSvc,
		Notifications: service.NewNotificationService(notifRepo),
		Dashboard:     service.NewDashboardService(docRepo, loc),
		Reminders:     reminderSvc,
		Ledger:        ledgerSvc,
	}

	if cfg.Reminder.SweepEnabled {
		sweeper := scheduler.NewSweeper(reminderSvc, ledgerSvc, cfg.Reminder.SweepInterval, log)
		go func() {
			if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Str("event", "sweeper_exit").Send()
			}
		}()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	deps := []handlers.Dependency{{
		Name: "ledger",
		Checker: handlers.HealthCheckerFunc(func(ctx context.Context) error {
			return ledger.Check(ctx, reminderLedger)
		}),
	}}
	if rdb != nil {
		deps = append(deps, handlers.Dependency{Name: "redis", Checker: rdb})
	}
	handlers.RegisterRoutes(app, db, services, deps...)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.Error().Err(err).Str("event", "server_shutdown_failed").Send()
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("event", "server_start").Str("addr", addr).Send()
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Str("event", "server_start_failed").Send()
	}
	log.Info().Str("event", "server_stopped").Send()
}

// setupKafka appends the Kafka publisher to deliverers when brokers are configured
// and returns the client's close function.
func setupKafka(ctx context.Context, cfg config.KafkaConfig, log zerolog.Logger, deliverers *delivery.Fanout) func() {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	cl, err := delivery.NewKafkaClient(cfg.Brokers, cfg.Topic, cfg.PublishTimeout)
	if err != nil {
		log.Fatal().Err(err).Str("event", "kafka_connect_failed").Send()
	}

	tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := delivery.EnsureTopic(tctx, kadm.NewClient(cl), cfg.Topic); err != nil {
		log.Warn().Err(err).Str("event", "kafka_topic_unavailable").Str("topic", cfg.Topic).Send()
	}

	*deliverers = append(*deliverers, delivery.NewKafkaPublisher(cl, cfg.Topic, cfg.PublishTimeout))
	log.Info().Str("event", "kafka_publisher_ready").Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Send()
	return cl.Close
}

// rebuildSearchIndex replaces the search index content with every user's documents,
// dropping entries deleted while an on-disk index was closed.
func rebuildSearchIndex(ctx context.Context, repo repository.DocumentRepository, index *search.Index) error {
	users, err := repo.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	var all []model.Document
	for _, u := range users {
		docs, err := repo.ListAllByUser(ctx, u)
		if err != nil {
			return err
		}
		all = append(all, docs...)
	}
	return index.Reindex(all)
}
