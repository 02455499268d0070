package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockHub/internal/domain/models"
	"StockHub/internal/usecase"
	applogger "StockHub/pkg/logger"
	"StockHub/pkg/util"

	"github.com/robfig/cron/v3"
)

// Runner is the forecast use case as seen by the scheduler.
type Runner interface {
	Forecast(ctx context.Context, p usecase.ForecastParams) (*models.ForecastReport, error)
}

// Scheduler periodically refreshes forecasts for the watchlist.
type Scheduler struct {
	cron        *cron.Cron
	runner      Runner
	watchlist   []string
	historyDays int
	l           *applogger.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	now         func() time.Time
}

// New creates a scheduler. spec is a six-field cron expression (seconds first).
func New(spec string, watchlist []string, historyDays int, runner Runner, l *applogger.Logger) (*Scheduler, error) {
	if l == nil {
		l = applogger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		runner:      runner,
		watchlist:   watchlist,
		historyDays: historyDays,
		l:           l,
		ctx:         ctx,
		cancel:      cancel,
		now:         time.Now,
	}
	cl := cronLogger{l}
	s.cron = cron.New(
		cron.WithSeconds(),
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(spec, func() { s.RefreshAll(s.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("register refresh task: %w", err)
	}
	return s, nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.l.Info("scheduler started", applogger.Strings("watchlist", s.watchlist))
}

// Stop cancels a running refresh and waits for it to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.l.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RefreshAll forecasts every ticker in turn. One failing ticker does not stop the rest.
func (s *Scheduler) RefreshAll(ctx context.Context) (ok, failed int) {
	to := util.StartOfDay(s.now())
	from := to.AddDate(0, 0, -s.historyDays)
	started := time.Now()

	for _, symbol := range s.watchlist {
		if ctx.Err() != nil {
			break
		}
		_, err := s.runner.Forecast(ctx, usecase.ForecastParams{
			Symbol:  symbol,
			From:    from,
			To:      to,
			Refresh: true,
		})
		if err != nil {
			failed++
			if errors.Is(err, usecase.ErrForecastInProgress) {
				s.l.Info("refresh skipped, already running", applogger.Symbol(symbol))
				continue
			}
			s.l.Warn("scheduled refresh failed", applogger.Symbol(symbol), applogger.Error(err))
			continue
		}
		ok++
	}
	s.l.Info("scheduled refresh done",
		applogger.Int("ok", ok),
		applogger.Int("failed", failed),
		applogger.Duration("duration_ms", time.Since(started)),
	)
	return ok, failed
}

// cronLogger adapts the app logger to cron.Logger.
type cronLogger struct{ l *applogger.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(kvFields(keysAndValues), applogger.Error(err))...)
}

func kvFields(kv []interface{}) []applogger.Field {
	out := make([]applogger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, applogger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}
