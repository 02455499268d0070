package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockHub/internal/domain/models"
	domrepo "StockHub/internal/domain/repository"
	domsvc "StockHub/internal/domain/service"
	"StockHub/internal/forecast"
	"StockHub/pkg/cache"
	applogger "StockHub/pkg/logger"
	"StockHub/pkg/util"
)

// ForecastSettings bound every forecast request.
type ForecastSettings struct {
	TrainTimeout time.Duration
	MaxRangeDays int
	CacheTTL     time.Duration
	LockTTL      time.Duration
}

// ForecastParams is one forecast request after binding.
type ForecastParams struct {
	Symbol   string
	From     time.Time
	To       time.Time
	Horizon  int
	Epochs   int
	Lookback int
	// Refresh skips the cache read; the result is still written back.
	Refresh bool
}

// ForecastUseCase fetches closes, runs the pipeline and fans the report out
// to the cache and the event publisher.
type ForecastUseCase struct {
	store      domrepo.PriceStore
	forecaster domsvc.Forecaster
	publisher  domrepo.ForecastPublisher
	cache      cache.Service
	metrics    domrepo.Metrics
	l          *applogger.Logger
	settings   ForecastSettings
	now        func() time.Time
}

// NewForecastUseCase builds the use case. c may be nil to disable caching.
func NewForecastUseCase(
	store domrepo.PriceStore,
	forecaster domsvc.Forecaster,
	publisher domrepo.ForecastPublisher,
	c cache.Service,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	settings ForecastSettings,
) *ForecastUseCase {
	if l == nil {
		l = applogger.Nop()
	}
	return &ForecastUseCase{
		store:      store,
		forecaster: forecaster,
		publisher:  publisher,
		cache:      c,
		metrics:    metrics,
		l:          l,
		settings:   settings,
		now:        time.Now,
	}
}

func forecastKey(p ForecastParams) string {
	return cache.GenerateKeyWithParams("forecast", p.Symbol,
		p.From.Format(util.DateLayout), p.To.Format(util.DateLayout),
		p.Lookback, p.Epochs, p.Horizon)
}

// Forecast returns the report for p, from cache when possible.
func (uc *ForecastUseCase) Forecast(ctx context.Context, p ForecastParams) (*models.ForecastReport, error) {
	p.Symbol = util.NormalizeSymbol(p.Symbol)
	if err := checkRange(p.From, p.To, uc.now(), uc.settings.MaxRangeDays); err != nil {
		return nil, err
	}
	log := uc.l.With(applogger.Symbol(p.Symbol))
	key := forecastKey(p)

	if uc.cache != nil {
		if !p.Refresh {
			var cached models.ForecastReport
			err := uc.cache.Get(ctx, key, &cached)
			uc.metrics.RecordCache(err == nil)
			if err == nil {
				uc.metrics.RecordRun("cached")
				return &cached, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				log.Warn("forecast cache read failed", applogger.Error(err))
			}
		}

		ok, err := uc.cache.TryLock(ctx, "lock:"+key, uc.settings.LockTTL)
		if err != nil {
			log.Warn("forecast lock failed, running unlocked", applogger.Error(err))
		} else if !ok {
			uc.metrics.RecordRun("busy")
			return nil, ErrForecastInProgress
		} else {
			defer func() {
				if err := uc.cache.Unlock(context.WithoutCancel(ctx), "lock:"+key); err != nil {
					log.Warn("forecast unlock failed", applogger.Error(err))
				}
			}()
		}
	}

	report, err := uc.run(ctx, p)
	if err != nil {
		uc.metrics.RecordRun("error")
		var se *forecast.StageError
		if errors.As(err, &se) {
			uc.metrics.RecordStageFailure(string(se.Stage))
			log.Warn("forecast pipeline halted",
				applogger.String("stage", string(se.Stage)),
				applogger.Error(se.Err),
			)
		}
		return nil, err
	}

	if n := len(report.Forecast); n > 0 {
		uc.metrics.RecordForecast(p.Symbol, report.Forecast[n-1].Price)
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, report, uc.settings.CacheTTL); err != nil {
			log.Warn("forecast cache write failed", applogger.Error(err))
		}
	}
	perr := uc.publisher.PublishForecast(ctx, report)
	uc.metrics.RecordPublish(perr)
	if perr != nil {
		log.Warn("forecast publish failed", applogger.Error(perr))
	}
	uc.metrics.RecordRun("ok")

	log.Info("forecast complete",
		applogger.Int("epochs", len(report.Losses)),
		applogger.Int("horizon", report.Horizon),
		applogger.Float64("rmse", report.Metrics.RMSE),
	)
	return report, nil
}

func (uc *ForecastUseCase) run(ctx context.Context, p ForecastParams) (*models.ForecastReport, error) {
	candles, err := uc.store.Candles(ctx, p.Symbol, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w: %w", ErrPriceSource, err)
	}
	series := models.CandlesToSeries(p.Symbol, candles)
	if series.Len() == 0 {
		return nil, ErrNoPriceData
	}

	runCtx := ctx
	if uc.settings.TrainTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, uc.settings.TrainTimeout)
		defer cancel()
	}
	report, err := uc.forecaster.Forecast(runCtx, series, domsvc.ForecastParams{
		Lookback: p.Lookback,
		Epochs:   p.Epochs,
		Horizon:  p.Horizon,
	})
	if err != nil {
		return nil, err
	}
	report.Symbol = p.Symbol
	report.From, report.To = p.From, p.To
	report.GeneratedAt = uc.now().UTC()
	return report, nil
}
