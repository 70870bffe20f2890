package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPAddr  string    `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	WebDir    string    `yaml:"web-dir" env:"WEB_DIR" env-default:"./web"`
	Board     Board     `yaml:"board"`
	Session   Session   `yaml:"session"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type Board struct {
	MaxSize     int `yaml:"max-size" env:"BOARD_MAX_SIZE" env-default:"10"`
	DefaultSize int `yaml:"default-size" env:"BOARD_DEFAULT_SIZE" env-default:"3"`
}

type Session struct {
	IdleTimeout   time.Duration `yaml:"idle-timeout" env:"SESSION_IDLE_TIMEOUT" env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
	Heartbeat     time.Duration `yaml:"heartbeat" env:"SESSION_HEARTBEAT" env-default:"60s"`
}

// PingInterval is how often sockets are pinged so that a healthy peer
// answers well within the heartbeat window.
func (s Session) PingInterval() time.Duration {
	return s.Heartbeat * 9 / 10
}

type Telemetry struct {
	Enabled       bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	CollectorAddr string `yaml:"collector-addr" env:"OTEL_COLLECTOR_ADDR" env-default:"otel-collector:4317"`
	ServiceName   string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"grid-tac-toe"`
	StdoutTraces  bool   `yaml:"stdout-traces" env:"OTEL_STDOUT_TRACES" env-default:"false"`
}

// Load reads the config file at path, with environment overrides. A missing
// file is not an error: environment variables and defaults are used instead.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from env: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations, panicking on failure.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

func (that *Config) validate() error {
	if that.Board.MaxSize < 2 {
		return fmt.Errorf("board.max-size must be at least 2, got %d", that.Board.MaxSize)
	}
	if that.Board.DefaultSize < 2 || that.Board.DefaultSize > that.Board.MaxSize {
		return fmt.Errorf("board.default-size must be between 2 and %d, got %d", that.Board.MaxSize, that.Board.DefaultSize)
	}
	if that.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep-interval must be positive, got %s", that.Session.SweepInterval)
	}
	if that.Session.Heartbeat < 0 {
		return fmt.Errorf("session.heartbeat must not be negative, got %s", that.Session.Heartbeat)
	}
	return nil
}
