package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/clinicasys/clinica-api/internal/config"
	"github.com/clinicasys/clinica-api/internal/email"
	"github.com/clinicasys/clinica-api/internal/repository/postgres"
	"github.com/clinicasys/clinica-api/pkg/logger"
	"github.com/clinicasys/clinica-api/pkg/messaging/redis"
	"github.com/clinicasys/clinica-api/pkg/metrics"
	"github.com/clinicasys/clinica-api/pkg/worker"
)

// Spec is the worker's environment configuration.
type Spec struct {
	DatabaseHost     string        `envconfig:"DB_HOST" default:"localhost"`
	DatabasePort     int           `envconfig:"DB_PORT" default:"5432"`
	DatabaseUser     string        `envconfig:"DB_USER" required:"true"`
	DatabasePassword string        `envconfig:"DB_PASSWORD" required:"true"`
	DatabaseName     string        `envconfig:"DB_NAME" required:"true"`
	DatabaseSSLMode  string        `envconfig:"DB_SSLMODE" default:"disable"`
	RedisURL         string        `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	BatchSize        int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval     time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	RetryAttempts    int           `envconfig:"OUTBOX_RETRY_ATTEMPTS" default:"3"`
	RetryDelay       time.Duration `envconfig:"OUTBOX_RETRY_DELAY" default:"1s"`
	SMTPHost         string        `envconfig:"SMTP_HOST"`
	SMTPPort         int           `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername     string        `envconfig:"SMTP_USERNAME"`
	SMTPPassword     string        `envconfig:"SMTP_PASSWORD"`
	SMTPFrom         string        `envconfig:"SMTP_FROM"`
	SMTPEnabled      bool          `envconfig:"SMTP_ENABLED" default:"false"`
	ClinicName       string        `envconfig:"CLINIC_NAME" default:"Clinica Medica"`
}

func main() {
	log := logger.NewLogger(nil)

	var spec Spec
	if err := envconfig.Process("", &spec); err != nil {
		log.Fatal(err, "failed to load worker configuration")
	}

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     spec.DatabaseHost,
		Port:     spec.DatabasePort,
		User:     spec.DatabaseUser,
		Password: spec.DatabasePassword,
		Name:     spec.DatabaseName,
		SSLMode:  spec.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(spec.RedisURL, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	mailer := email.NewSender(config.SMTPConfig{
		Host:     spec.SMTPHost,
		Port:     spec.SMTPPort,
		Username: spec.SMTPUsername,
		Password: spec.SMTPPassword,
		From:     spec.SMTPFrom,
		Enabled:  spec.SMTPEnabled,
	}, spec.ClinicName, log)

	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		mailer,
		metrics.New("clinica_worker"),
		log,
		worker.Config{
			BatchSize:     spec.BatchSize,
			PollInterval:  spec.PollInterval,
			RetryAttempts: spec.RetryAttempts,
			RetryDelay:    spec.RetryDelay,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	if err := processor.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal(err, "worker stopped")
	}
}
