package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RikiBob/test-task-for-dzen-code/internal/audit"
	auditrepo "github.com/RikiBob/test-task-for-dzen-code/internal/audit/repository"
	"github.com/RikiBob/test-task-for-dzen-code/internal/config"
	"github.com/RikiBob/test-task-for-dzen-code/internal/db"
	"github.com/RikiBob/test-task-for-dzen-code/internal/identity/service"
	"github.com/RikiBob/test-task-for-dzen-code/internal/security"
	"github.com/RikiBob/test-task-for-dzen-code/internal/server"
	"github.com/RikiBob/test-task-for-dzen-code/internal/session"
	"github.com/RikiBob/test-task-for-dzen-code/internal/telemetry"
	telemetryotel "github.com/RikiBob/test-task-for-dzen-code/internal/telemetry/otel"
	"github.com/RikiBob/test-task-for-dzen-code/internal/telemetry/producer"
	userrepo "github.com/RikiBob/test-task-for-dzen-code/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	pg, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pg.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "dzen-api", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	emitters := telemetry.MultiEmitter{telemetryotel.NewEventEmitter(providers.LoggerProvider)}
	var kafkaProducer *producer.KafkaProducer
	if brokers := cfg.TelemetryKafkaBrokersList(); len(brokers) > 0 {
		kafkaProducer, err = producer.NewKafkaProducer(brokers, cfg.TelemetryKafkaTopic)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		emitters = append(emitters, kafkaProducer)
		log.Printf("telemetry: emitting to kafka topic %s", cfg.TelemetryKafkaTopic)
	}

	codec := security.NewCodec([]byte(cfg.JWTSecret))
	store := session.NewRedisStore(rdb)
	sessions := session.NewManager(codec, store, cfg.AccessTTL(), cfg.RefreshTTL())

	hasher := security.NewHasher(cfg.BcryptCost)
	users := userrepo.NewPostgresRepository(pg)
	auth := service.NewAuthService(users, hasher, sessions)

	auditLogs := auditrepo.NewPostgresRepository(pg)
	auditLogger := audit.NewLogger(auditLogs, server.ClientIPFromContext)

	srv := server.New(server.Config{
		Auth:       auth,
		Sessions:   sessions,
		Audit:      auditLogger,
		AuditLogs:  auditLogs,
		Emitter:    emitters,
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
		Checks: map[string]server.HealthCheck{
			"postgres": pg.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Let in-flight async telemetry emits land before tearing providers down.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Printf("kafka producer close: %v", err)
		}
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
