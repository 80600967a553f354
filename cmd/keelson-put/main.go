// keelson-put publishes a single value, enclosed as a TimestampedBytes
// payload, on a "raw" pub/sub key.
//
// Usage: keelson-put <key> <value>
//
// The value is taken verbatim; set KEELSON_PUT_ENCODING=base64 to pass
// binary content.
package main

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/nats-io/nats.go"

	keelson "github.com/rise-maritime/keelson-go"
	"github.com/rise-maritime/keelson-go/payloads"
	"github.com/rise-maritime/keelson-go/subject"
	"github.com/rise-maritime/keelson-go/transport"
)

type config struct {
	NATSURL  string `env:"KEELSON_NATS_URL" env-default:"nats://localhost:4222"`
	Encoding string `env:"KEELSON_PUT_ENCODING" env-default:"text"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: keelson-put <key> <value>")
		os.Exit(2)
	}
	key, value := os.Args[1], os.Args[2]

	var cfg config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	subj, err := keelson.SubjectFromPubSubKey(key)
	if err != nil {
		logger.Error("invalid key", "key", key, "error", err)
		os.Exit(1)
	}

	typeName, err := subject.Resolve(subj)
	if err != nil || typeName != payloads.TypeNameTimestampedBytes {
		logger.Error("keelson-put only publishes on subjects carrying TimestampedBytes", "subject", subj)
		os.Exit(1)
	}

	var raw []byte
	switch cfg.Encoding {
	case "text":
		raw = []byte(value)
	case "base64":
		raw, err = base64.StdEncoding.DecodeString(value)
		if err != nil {
			logger.Error("invalid base64 value", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("unknown encoding, want text or base64", "encoding", cfg.Encoding)
		os.Exit(1)
	}

	payload := &payloads.TimestampedBytes{Timestamp: time.Now(), Value: raw}
	data, err := payload.Marshal()
	if err != nil {
		logger.Error("failed to marshal payload", "error", err)
		os.Exit(1)
	}

	envelope, err := keelson.Enclose(data)
	if err != nil {
		logger.Error("failed to enclose payload", "error", err)
		os.Exit(1)
	}

	nc, err := nats.Connect(cfg.NATSURL, nats.Name("keelson-put"))
	if err != nil {
		logger.Error("failed to connect to NATS", "url", cfg.NATSURL, "error", err)
		os.Exit(1)
	}
	defer nc.Close()

	if err := transport.NewPublisher(nc).Publish(key, envelope); err != nil {
		logger.Error("failed to publish", "key", key, "error", err)
		os.Exit(1)
	}

	if err := nc.Flush(); err != nil {
		logger.Error("failed to flush", "error", err)
		os.Exit(1)
	}

	logger.Info("published", "key", key, "type", typeName, "bytes", len(envelope))
}
