package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	TransportGRPC      = "grpc"
	TransportWebSocket = "websocket"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	Jaeger   string         `yaml:"jaeger" env:"JAEGER"`
	Log      LogConfig      `yaml:"log"`
	Source   SourceConfig   `yaml:"source"`
	Watch    WatchConfig    `yaml:"watch"`
	HTTP     HTTPConfig     `yaml:"http"`
	Terminal TerminalConfig `yaml:"terminal"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// SourceConfig selects where match updates come from.
type SourceConfig struct {
	Transport    string        `yaml:"transport" env:"SOURCE_TRANSPORT" env-default:"grpc"`
	Host         string        `yaml:"host" env:"SOURCE_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"SOURCE_PORT" env-default:"8081"`
	WebSocketURL string        `yaml:"websocket_url" env:"SOURCE_WEBSOCKET_URL" env-default:"ws://localhost:8080/ws"`
	Timeout      time.Duration `yaml:"timeout" env:"SOURCE_TIMEOUT" env-default:"3s"`
}

func (c SourceConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type WatchConfig struct {
	MatchID    string        `yaml:"match_id" env:"WATCH_MATCH_ID" env-default:"match-123"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"WATCH_RETRY_DELAY" env-default:"3s"`
}

// HTTPConfig configures the page server. Port 0 disables it.
type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            int           `yaml:"port" env:"HTTP_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

func (c HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type TerminalConfig struct {
	Disabled bool `yaml:"disabled" env:"TERMINAL_DISABLED"`
	NoColor  bool `yaml:"no_color" env:"TERMINAL_NO_COLOR"`
}

// MetricsConfig tunes the Prometheus collectors. Empty buckets keep the
// client library defaults.
type MetricsConfig struct {
	Namespace   string    `yaml:"namespace" env:"METRICS_NAMESPACE" env-default:"fan_live"`
	HTTPBuckets []float64 `yaml:"http_buckets" env:"METRICS_HTTP_BUCKETS" env-separator:","`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}
	return MustLoadByPath(path)
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exists: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read the config: " + err.Error())
	}

	if cfg.Source.Transport != TransportGRPC && cfg.Source.Transport != TransportWebSocket {
		panic("unsupported source transport: " + cfg.Source.Transport)
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	if res == "" {
		res = "config/local.yaml"
	}

	return res
}
