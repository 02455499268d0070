package di

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"StockHub/internal/domain/repository"
	domsvc "StockHub/internal/domain/service"
	"StockHub/internal/forecast"
	"StockHub/internal/handler/api"
	internalrepo "StockHub/internal/repository"
	"StockHub/internal/scheduler"
	"StockHub/internal/service/finnhub"
	"StockHub/internal/service/ratelimit"
	"StockHub/internal/services/forecasting"
	"StockHub/internal/usecase"
	"StockHub/pkg/cache"
	pkgch "StockHub/pkg/clickhouse"
	"StockHub/pkg/config"
	xhttp "StockHub/pkg/http"
	"StockHub/pkg/http/middleware"
	pkgkafka "StockHub/pkg/kafka"
	applogger "StockHub/pkg/logger"
	"StockHub/pkg/metrics"
	"StockHub/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: "stdout",
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideClickHouseClient connects to ClickHouse and ensures the candle table exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, pkgch.CandleSchema(cfg.ClickHouse.Database, cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvidePriceStore selects the configured price source.
func ProvidePriceStore(cfg *config.Config, l *applogger.Logger) (repository.PriceStore, error) {
	newCH := func() (*internalrepo.CHPriceStore, error) {
		client, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, err
		}
		return internalrepo.NewCHPriceStore(client, cfg.ClickHouse.Table, l)
	}

	switch cfg.PriceSource.Type {
	case "clickhouse":
		return newCH()
	case "finnhub":
		fh := finnhub.New(
			cfg.Finnhub.APIKey,
			cfg.Finnhub.BaseURL,
			cfg.Finnhub.Timeout,
			ratelimit.New(cfg.Finnhub.RequestsPerS, cfg.Finnhub.Burst),
			l,
		)
		if !cfg.ClickHouse.Archive {
			return fh, nil
		}
		ch, err := newCH()
		if err != nil {
			return nil, err
		}
		return internalrepo.NewArchivingPriceStore(fh, ch, l), nil
	default:
		return nil, fmt.Errorf("unknown price source %q", cfg.PriceSource.Type)
	}
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideForecastPublisher publishes to Kafka when a producer exists.
func ProvideForecastPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ForecastPublisher {
	if producer == nil {
		return internalrepo.NoopPublisher{}
	}
	return internalrepo.NewKafkaForecastPublisher(producer, cfg.Kafka.Topic)
}

// ProvideCache builds the response cache: memory, optionally fronting Redis.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	mem := cache.NewMemoryCache(
		cache.WithMemoryMaxSize(cfg.Cache.MemorySize),
		cache.WithMemoryDefaultTTL(cfg.Cache.TTL),
	)
	if !cfg.Cache.Redis.Enabled {
		return mem, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		_ = mem.Close()
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(mem, rc), nil
}

// ForecastConfig maps the YAML forecast section onto pipeline options.
func ForecastConfig(cfg *config.Config) forecast.Config {
	f := cfg.Forecast
	return forecast.Config{
		LookbackLength:     f.LookbackLength,
		Epochs:             f.Epochs,
		BatchSize:          f.BatchSize,
		ValidationFraction: f.ValidationFraction,
		TrainFraction:      f.TrainFraction,
		Horizon:            f.Horizon,
		HiddenWidth:        f.HiddenWidth,
		DenseWidth:         f.DenseWidth,
		LearningRate:       f.LearningRate,
		Optimizer:          strings.ToLower(f.Optimizer),
		ClipNorm:           f.ClipNorm,
		ResidualHead:       f.ResidualHead,
		Seed:               f.Seed,
		Shuffle:            f.Shuffle,
	}
}

// ProvideForecaster builds the pipeline with metrics as its observer.
func ProvideForecaster(cfg *config.Config, rec *metrics.Recorder) domsvc.Forecaster {
	p := forecast.NewPipeline(forecast.WithObserver(rec))
	return forecasting.NewPipelineForecaster(p, ForecastConfig(cfg))
}

// ProvideForecastUseCase creates the forecast use case.
func ProvideForecastUseCase(
	store repository.PriceStore,
	forecaster domsvc.Forecaster,
	pub repository.ForecastPublisher,
	c cache.Service,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(store, forecaster, pub, c, m, l, usecase.ForecastSettings{
		TrainTimeout: cfg.Forecast.TrainTimeout,
		MaxRangeDays: cfg.Forecast.MaxRangeDays,
		CacheTTL:     cfg.Cache.TTL,
		LockTTL:      cfg.Cache.LockTTL,
	})
}

// ProvideSeriesUseCase creates the series use case.
func ProvideSeriesUseCase(store repository.PriceStore, cfg *config.Config) *usecase.SeriesUseCase {
	return usecase.NewSeriesUseCase(store, cfg.Watchlist, cfg.Forecast.MaxRangeDays)
}

// ProvideForecastHandler creates the Echo handler.
func ProvideForecastHandler(l *applogger.Logger, f *usecase.ForecastUseCase, s *usecase.SeriesUseCase) *api.ForecastEchoHandler {
	return api.NewForecastEchoHandler(l, f, s)
}

// ProvideHTTPServer creates the Echo server; forecast requests are rate limited per client IP.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.ForecastEchoHandler) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(l),
	}
	if !cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(""))
	} else {
		opts = append(opts, xhttp.WithMetricsPath(cfg.Metrics.Path))
	}
	if cfg.RateLimit.Enabled {
		lim := ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		opts = append(opts, xhttp.WithMiddleware(middleware.RateLimit(lim, func(path string) bool {
			return path == "/api/forecast"
		})))
	}
	return xhttp.NewServer([]xhttp.Handler{h}, opts...)
}

// ProvideScheduler creates the watchlist refresher, or nil when disabled.
func ProvideScheduler(cfg *config.Config, f *usecase.ForecastUseCase, l *applogger.Logger) (*scheduler.Scheduler, error) {
	if !cfg.Scheduler.Enabled {
		return nil, nil
	}
	return scheduler.New(cfg.Scheduler.Spec, cfg.Watchlist, cfg.Scheduler.HistoryDays, f, l)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// ProvideApp assembles the application and ships error logs to Kafka when enabled.
func ProvideApp(
	cfg *config.Config,
	srv *xhttp.Server,
	sched *scheduler.Scheduler,
	l *applogger.Logger,
	producer *pkgkafka.Producer,
	pub repository.ForecastPublisher,
	store repository.PriceStore,
	c cache.Service,
) *server.App {
	closers := make([]io.Closer, 0, 4)
	if producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogTopic,
			Source:         "stockhub",
			Publisher:      producer,
		})
		closers = append(closers, closerFunc(func() error {
			l.RemoveCollector()
			return nil
		}))
	}
	closers = append(closers, pub, store)
	if c != nil {
		closers = append(closers, c)
	}
	return server.New(srv, sched, l, closers...)
}
