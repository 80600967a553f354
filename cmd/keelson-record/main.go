// keelson-record subscribes to a keelson key expression and writes every
// received envelope, uncovered, to a pebble-backed record log.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/pebble"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rise-maritime/keelson-go/recorder"
	"github.com/rise-maritime/keelson-go/recordlog"
	"github.com/rise-maritime/keelson-go/transport"
)

type config struct {
	NATSURL     string `yaml:"nats_url" env:"KEELSON_NATS_URL" env-default:"nats://localhost:4222"`
	KeyExpr     string `yaml:"key_expr" env:"KEELSON_KEY_EXPR" env-default:"**"`
	DBPath      string `yaml:"db_path" env:"KEELSON_DB_PATH" env-default:"keelson-record.db"`
	QueueGroup  string `yaml:"queue_group" env:"KEELSON_QUEUE_GROUP" env-default:""`
	BufferSize  int    `yaml:"buffer_size" env:"KEELSON_BUFFER_SIZE" env-default:"256"`
	MetricsAddr string `yaml:"metrics_addr" env:"KEELSON_METRICS_ADDR" env-default:":9091"`
}

func loadConfig() (*config, error) {
	cfg := &config{}

	// ReadConfig applies env overrides after parsing the file; fall back to
	// env vars alone if there is no config file.
	if err := cleanenv.ReadConfig("keelson-record.yaml", cfg); err != nil {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("metrics listening", "addr", cfg.MetricsAddr)
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			logger.Error("metrics server stopped", "error", err)
		}
	}()

	nc, err := retry.DoWithData(
		func() (*nats.Conn, error) {
			return nats.Connect(cfg.NATSURL, nats.Name("keelson-record"))
		},
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.Context(ctx),
	)
	if err != nil {
		logger.Error("failed to connect to NATS", "url", cfg.NATSURL, "error", err)
		os.Exit(1)
	}
	defer nc.Close()

	db, err := pebble.Open(cfg.DBPath, &pebble.Options{})
	if err != nil {
		logger.Error("failed to open record database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rec := recorder.New(
		transport.NewNATS(nc, cfg.KeyExpr, transport.WithQueueGroup(cfg.QueueGroup)),
		recordlog.NewPebble(db),
		recorder.WithSlogHandler(logger.Handler()),
		recorder.WithBufferSize(cfg.BufferSize),
	)

	logger.Info("recording", "key_expr", cfg.KeyExpr, "db", cfg.DBPath)

	if err := rec.Run(ctx); err != nil {
		logger.Error("recorder stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("recorder shut down")
}
