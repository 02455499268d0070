package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"5m"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error fatal"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	PriceSource struct {
		Type string `yaml:"type" default:"finnhub" validate:"oneof=finnhub clickhouse"`
	} `yaml:"price_source"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"stockhub"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		Table            string        `yaml:"table" default:"daily_candles"`
		// Archive mirrors provider fetches into Table when the price source is finnhub.
		Archive          bool          `yaml:"archive"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"10s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
	Finnhub struct {
		APIKey       string        `yaml:"api_key"`
		BaseURL      string        `yaml:"base_url" default:"https://finnhub.io/api/v1" validate:"url"`
		Timeout      time.Duration `yaml:"timeout" default:"15s"`
		RequestsPerS float64       `yaml:"requests_per_second" default:"1" validate:"gt=0"`
		Burst        int           `yaml:"burst" default:"5" validate:"gte=1"`
	} `yaml:"finnhub"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"stockhub.forecasts"`
		LogTopic     string   `yaml:"log_topic" default:"stockhub.logs"`
		RequiredAcks int      `yaml:"required_acks" default:"-1" validate:"oneof=-1 0 1"`
		Compression  string   `yaml:"compression" default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"5"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Cache struct {
		Enabled    bool          `yaml:"enabled" default:"true"`
		TTL        time.Duration `yaml:"ttl" default:"6h"`
		MemorySize int           `yaml:"memory_size" default:"256" validate:"gte=1"`
		LockTTL    time.Duration `yaml:"lock_ttl" default:"10m"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"stockhub"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	RateLimit struct {
		Enabled           bool    `yaml:"enabled" default:"true"`
		RequestsPerSecond float64 `yaml:"requests_per_second" default:"2" validate:"gt=0"`
		Burst             int     `yaml:"burst" default:"4" validate:"gte=1"`
	} `yaml:"rate_limit"`
	Forecast  ForecastConfig `yaml:"forecast"`
	Scheduler struct {
		Enabled bool   `yaml:"enabled"`
		Spec    string `yaml:"spec" default:"0 0 22 * * 1-5"`
		// HistoryDays is how far back the scheduled refresh reaches.
		HistoryDays int `yaml:"history_days" default:"730" validate:"gte=1"`
	} `yaml:"scheduler"`
	Watchlist []string `yaml:"watchlist" default:"[\"AAPL\",\"MSFT\",\"GOOGL\",\"AMZN\",\"TSLA\",\"JPM\",\"JNJ\",\"NVDA\",\"V\",\"NFLX\"]" validate:"min=1,dive,required"`
}

// ForecastConfig carries the pipeline defaults applied to every request.
type ForecastConfig struct {
	LookbackLength     int           `yaml:"lookback_length" default:"60" validate:"gte=1"`
	Epochs             int           `yaml:"epochs" default:"10" validate:"gte=1"`
	BatchSize          int           `yaml:"batch_size" default:"32" validate:"gte=1"`
	ValidationFraction float64       `yaml:"validation_fraction" default:"0.1" validate:"gte=0,lt=1"`
	TrainFraction      float64       `yaml:"train_fraction" default:"0.95" validate:"gt=0,lte=1"`
	Horizon            int           `yaml:"horizon" default:"7" validate:"gte=1"`
	HiddenWidth        int           `yaml:"hidden_width" default:"64" validate:"gte=1"`
	DenseWidth         int           `yaml:"dense_width" default:"32" validate:"gte=1"`
	LearningRate       float64       `yaml:"learning_rate" default:"0.001" validate:"gt=0"`
	Optimizer          string        `yaml:"optimizer" default:"adam" validate:"oneof=adam sgd"`
	ClipNorm           float64       `yaml:"clip_norm" default:"1"`
	ResidualHead       bool          `yaml:"residual_head" default:"true"`
	Seed               int64         `yaml:"seed" default:"42"`
	Shuffle            bool          `yaml:"shuffle"`
	TrainTimeout       time.Duration `yaml:"train_timeout" default:"5m"`
	MaxRangeDays       int           `yaml:"max_range_days" default:"3650" validate:"gte=1"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("PRICE_SOURCE"); v != "" {
		c.PriceSource.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, err := splitHostPort(v)
		if err != nil {
			return nil, fmt.Errorf("REDIS_ADDR: %w", err)
		}
		c.Cache.Redis.Host, c.Cache.Redis.Port = host, port
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = splitList(v)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.PriceSource.Type == "finnhub" && c.Finnhub.APIKey == "" {
		return fmt.Errorf("finnhub.api_key is required when price_source.type is finnhub")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitHostPort(addr string) (string, int, error) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return "", 0, fmt.Errorf("bad port in %q: %w", addr, err)
	}
	return host, port, nil
}
