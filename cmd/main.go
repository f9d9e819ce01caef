/**
 * @description
 * This is the main entry point for the remit-service. It is responsible for
 * initializing all components of the service, including configuration, database
 * connection, external API clients, message brokers, repositories, the core
 * application service, background workers, and the HTTP server. It wires
 * everything together and starts the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/redis/go-redis/v9: Preferences store backend.
 * - internal/api, internal/app, internal/config, internal/store: Internal packages for the service.
 * - pkg/aiclient: Client for the hosted completion endpoint.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/diaremit/remit-service/internal/api"
	"github.com/diaremit/remit-service/internal/app"
	"github.com/diaremit/remit-service/internal/config"
	"github.com/diaremit/remit-service/internal/prefs"
	"github.com/diaremit/remit-service/internal/rates"
	"github.com/diaremit/remit-service/internal/store"
	"github.com/diaremit/remit-service/pkg/aiclient"
	rmrabbit "github.com/diaremit/remit-service/pkg/rabbitmq"
)

func main() {
	// Load a local .env file when present; real deployments set environment
	// variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.AuthJWTSecret) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"auth jwt secret must be configured\" env=AUTH_JWT_SECRET")
	}

	log.Printf("level=info component=bootstrap msg=\"starting remit-service\" port=%s", cfg.ServerPort)

	// The service boots without a database, in a degraded read-only mode where
	// the catalog and assistant endpoints still work.
	var repository store.Repository = store.NewDisabledRepository()
	if cfg.DatabaseURL == "" {
		log.Println("level=warn component=bootstrap msg=\"database url missing; transfers and recipients disabled\" env=DATABASE_URL")
	} else {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
		}

		poolConfig.MaxConns = 50
		poolConfig.MinConns = 5
		poolConfig.MaxConnLifetime = 30 * time.Minute
		poolConfig.MaxConnIdleTime = 5 * time.Minute

		// Disable prepared statement caching to prevent conflicts behind
		// connection poolers.
		poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

		dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
		}
		defer dbpool.Close()
		log.Println("level=info component=bootstrap msg=\"database connected\"")

		repository = store.NewPostgresRepository(dbpool)
	}

	// Initialize the RabbitMQ producer to publish balance and transfer status
	// events. A missing broker degrades to a no-op publisher.
	var producer rmrabbit.Publisher
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"rabbitmq url missing; event publishing disabled\" env=RABBITMQ_URL")
		producer = &rmrabbit.EventProducerFallback{}
	} else {
		rabbitProducer, err := rmrabbit.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
			producer = &rmrabbit.EventProducerFallback{}
		} else {
			defer rabbitProducer.Close()
			log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
			producer = rabbitProducer
		}
	}

	// Preferences live in Redis when available, otherwise in process memory.
	var prefsStore prefs.Store = prefs.NewMemoryStore()
	if strings.TrimSpace(cfg.RedisURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"redis url missing; preferences stored in memory\" env=REDIS_URL")
	} else {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; preferences stored in memory\" err=%v", parseErr)
		} else {
			redisClient := redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := redisClient.Ping(pingCtx).Err()
			cancelPing()
			if pingErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis ping failed; preferences stored in memory\" err=%v", pingErr)
				redisClient.Close()
			} else {
				defer redisClient.Close()
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
				prefsStore = prefs.NewRedisStore(redisClient, cfg.RedisPrefsPrefix)
			}
		}
	}

	catalog := rates.NewCatalog(time.Now().UTC())
	completions := aiclient.NewClient(cfg.AIEndpointURL)
	progression := app.NewProgression(repository, producer, cfg.ProcessingDelay(), cfg.CompletionDelay())

	service := app.NewService(repository, catalog, prefsStore, completions, producer, progression)

	// Mirror the static catalog into the database so reporting queries can
	// join against it. Harmless to skip in degraded mode.
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := service.SeedExchangeRates(seedCtx); err != nil && cfg.DatabaseURL != "" {
		log.Printf("level=warn component=bootstrap msg=\"exchange rate seed failed\" err=%v", err)
	}
	cancelSeed()

	// Background execution of due scheduled transfers.
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobs := app.NewJobs(service, slogger)
	scheduler := app.NewScheduler(jobs, slogger, cfg.ScheduledTransferCron)
	scheduler.Start()

	handlers := api.NewHandlers(service)
	router := api.Routes(handlers, cfg.AuthJWTSecret)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	// Stop the cron scheduler and wait for any in-flight job, then let the
	// progression worker finish or abandon its pending timers.
	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
	}
	progression.Stop()

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
