package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikh-saqib/atm-ledger-system/internal/api"
	"github.com/sheikh-saqib/atm-ledger-system/internal/config"
	"github.com/sheikh-saqib/atm-ledger-system/internal/events/kafka"
	"github.com/sheikh-saqib/atm-ledger-system/internal/events/logsink"
	"github.com/sheikh-saqib/atm-ledger-system/internal/events/rabbitmq"
	interfaces "github.com/sheikh-saqib/atm-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/atm-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/atm-ledger-system/internal/session"
	"github.com/sheikh-saqib/atm-ledger-system/internal/storage"
	"github.com/sheikh-saqib/atm-ledger-system/internal/storage/memory"
	"github.com/sheikh-saqib/atm-ledger-system/internal/storage/postgres"
	"github.com/sheikh-saqib/atm-ledger-system/internal/teller"
)

var envFile = flag.String("env", ".env", "dotenv file to load before reading the environment")

func main() {
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	seed, err := cfg.Seed()
	if err != nil {
		log.Fatal("Error loading seed accounts: ", err)
	}
	store := memory.NewAccountStore(storage.BuildAccounts(seed))
	log.Printf("Seeded %d accounts", len(seed))

	publisher, closer, err := newPublisher(cfg)
	if err != nil {
		log.Fatal("Error creating event publisher: ", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	ledgerService := ledger.NewLedger(store, publisher, ledger.Config{
		DailyWithdrawLimit: cfg.DailyWithdrawLimit,
		HistorySize:        cfg.HistorySize,
	})
	guard := session.NewGuard(store, cfg.MaxFailedAttempts)
	srv := api.NewServer(teller.New(guard, ledgerService), session.NewRegistry(cfg.SessionIdleTimeout, cfg.MaxPendingSessions)).
		HTTPServer(cfg.ServerAddress, cfg.ReadTimeout, cfg.WriteTimeout)

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Printf("Starting server on %s (event sink: %s)", cfg.ServerAddress, cfg.EventSink)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

// newPublisher builds the configured event sink. The returned closer is
// nil for sinks that hold no connection.
func newPublisher(cfg *config.Config) (interfaces.EventPublisher, io.Closer, error) {
	switch cfg.EventSink {
	case config.SinkKafka:
		p := kafka.NewPublisher(cfg.KafkaBrokers)
		return topicOverride{p, cfg.KafkaTopic}, p, nil
	case config.SinkRabbitMQ:
		p, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	case config.SinkPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		j, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return j, j, nil
	case config.SinkNone:
		return nil, nil, nil
	default:
		return logsink.NewPublisher(nil), nil, nil
	}
}

// topicOverride publishes every event on a fixed topic.
type topicOverride struct {
	interfaces.EventPublisher
	topic string
}

func (t topicOverride) Publish(ctx context.Context, _ string, event any) error {
	return t.EventPublisher.Publish(ctx, t.topic, event)
}
