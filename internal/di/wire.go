//go:build wireinject
// +build wireinject

package di

import (
	"StockHub/internal/domain/repository"
	"StockHub/pkg/config"
	"StockHub/pkg/metrics"
	"StockHub/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,
		wire.Bind(new(repository.Metrics), new(*metrics.Recorder)),

		// Infrastructure
		ProvidePriceStore,
		ProvideKafkaProducer,
		ProvideForecastPublisher,
		ProvideCache,

		// Use cases
		ProvideForecaster,
		ProvideForecastUseCase,
		ProvideSeriesUseCase,

		// Transport
		ProvideForecastHandler,
		ProvideHTTPServer,
		ProvideScheduler,

		ProvideApp,
	)
	return &server.App{}, nil
}
