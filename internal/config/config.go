package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
// The env tag names the variable each field is read from.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	LogFormat       string        `env:"LOG_FORMAT" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	DataPath           string        `env:"DATA_PATH" validate:"required"`
	DataReloadInterval time.Duration `env:"DATA_RELOAD_INTERVAL" validate:"gte=0"`

	TransitionDuration   time.Duration `env:"TRANSITION_DURATION" validate:"gte=0,lte=1m"`
	FrameInterval        time.Duration `env:"FRAME_INTERVAL" validate:"gte=1ms,lte=1s"`
	RestartFromDisplayed bool          `env:"RESTART_FROM_DISPLAYED"`
	RenderCacheSize      int           `env:"RENDER_CACHE_SIZE" validate:"gte=0"`

	// Frame stream configuration.
	KafkaEnabled    bool     `env:"KAFKA_ENABLED"`
	KafkaBrokers    []string `env:"KAFKA_BROKERS"`
	KafkaFrameTopic string   `env:"KAFKA_FRAME_TOPIC"`
	FrameBufferSize int      `env:"FRAME_BUFFER_SIZE" validate:"gt=0"`
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is read first if present;
// variables already set in the environment take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	reloadInterval, err := parseDuration("DATA_RELOAD_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}
	transition, err := parseDuration("TRANSITION_DURATION", "1400ms")
	if err != nil {
		return nil, err
	}
	frameInterval, err := parseDuration("FRAME_INTERVAL", "16ms")
	if err != nil {
		return nil, err
	}
	restartFromDisplayed, err := parseBool("RESTART_FROM_DISPLAYED", false)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("RENDER_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	bufferSize, err := parseInt("FRAME_BUFFER_SIZE", 1024)
	if err != nil {
		return nil, err
	}
	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "json")),
		ShutdownTimeout: shutdownTimeout,

		DataPath:           sharedcfg.EnvOrDefault("DATA_PATH", "data/synthetic_weather.csv"),
		DataReloadInterval: reloadInterval,

		TransitionDuration:   transition,
		FrameInterval:        frameInterval,
		RestartFromDisplayed: restartFromDisplayed,
		RenderCacheSize:      cacheSize,

		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaFrameTopic: sharedcfg.EnvOrDefault("KAFKA_FRAME_TOPIC", "gauge-frames"),
		FrameBufferSize: bufferSize,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && strings.TrimSpace(cfg.KafkaFrameTopic) == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_FRAME_TOPIC is empty")
	}

	return cfg, nil
}

var validate = newValidator()

func newValidator() func(*Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return func(cfg *Config) error {
		err := v.Struct(cfg)
		if err == nil {
			return nil
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		errs := make([]error, 0, len(verrs))
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("invalid %s %v: fails %q", fe.Field(), fe.Value(), fe.Tag()))
		}
		return errors.Join(errs...)
	}
}

func parseDuration(key, def string) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return b, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}
