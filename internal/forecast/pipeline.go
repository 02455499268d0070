package forecast

import (
	"context"
	"errors"
	"time"

	"StockHub/internal/domain/models"
)

// Stage names a step of the pipeline state machine.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageNormalize Stage = "normalize"
	StageWindow    Stage = "window"
	StageTrain     Stage = "train"
	StageEvaluate  Stage = "evaluate"
	StageForecast  Stage = "forecast"
)

// Observer receives progress callbacks from a pipeline run.
type Observer interface {
	OnStage(symbol string, stage Stage, took time.Duration)
	OnEpoch(symbol string, e LossEpoch)
}

type nopObserver struct{}

func (nopObserver) OnStage(string, Stage, time.Duration) {}
func (nopObserver) OnEpoch(string, LossEpoch)            {}

// HoldoutRow is one test window with its timestamp.
type HoldoutRow struct {
	Time      time.Time
	Actual    float64
	Predicted float64
}

// Result is everything a completed run produced.
type Result struct {
	Symbol    string
	Stage     Stage
	ScaleMin  float64
	ScaleMax  float64
	Losses    LossHistory
	Metrics   *Metrics
	Holdout   []HoldoutRow
	Forecast  []ForecastPoint
	Warnings  []string
	Durations map[Stage]time.Duration
	NumParams int
}

// Pipeline runs normalize, window, train, evaluate and forecast in order.
// It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	observer Observer
}

type PipelineOption func(*Pipeline)

// WithObserver sets the progress observer.
func WithObserver(o Observer) PipelineOption {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{observer: nopObserver{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every stage against series. A failing stage halts the run and
// is reported as *StageError; no partial forecast is returned.
func (p *Pipeline) Run(ctx context.Context, series models.PriceSeries, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	res := &Result{
		Symbol:    series.Symbol,
		Stage:     StageIdle,
		Durations: make(map[Stage]time.Duration, 5),
	}
	L := cfg.LookbackLength

	fail := func(stage Stage, err error) (*Result, error) {
		return nil, &StageError{Stage: stage, Err: err}
	}
	done := func(stage Stage, started time.Time) {
		took := time.Since(started)
		res.Stage = stage
		res.Durations[stage] = took
		p.observer.OnStage(series.Symbol, stage, took)
	}

	if err := series.Validate(); err != nil {
		return fail(StageNormalize, err)
	}
	if n := series.Len(); n < L+2 {
		return fail(StageWindow, &InsufficientDataError{Need: L + 2, Have: n, What: "closing prices"})
	}

	// normalize
	started := time.Now()
	closes := series.Closes()
	scaler, err := Fit(closes)
	if err != nil {
		return fail(StageNormalize, err)
	}
	normalized, err := scaler.Transform(closes)
	if err != nil {
		return fail(StageNormalize, err)
	}
	res.ScaleMin, res.ScaleMax = scaler.Min(), scaler.Max()
	done(StageNormalize, started)

	// window
	started = time.Now()
	ds, err := BuildWindows(normalized, L)
	if err != nil {
		return fail(StageWindow, err)
	}
	train, holdout, err := Split(ds, cfg.TrainFraction)
	if err != nil {
		return fail(StageWindow, err)
	}
	done(StageWindow, started)

	// train
	started = time.Now()
	model, losses, err := NewTrainer(cfg).
		OnEpoch(func(e LossEpoch) { p.observer.OnEpoch(series.Symbol, e) }).
		Run(ctx, train)
	res.Losses = losses
	if err != nil {
		return fail(StageTrain, err)
	}
	res.NumParams = model.NumParams()
	done(StageTrain, started)

	// evaluate
	started = time.Now()
	metrics, err := Evaluate(model, holdout, scaler)
	if err != nil {
		var ume *UndefinedMetricError
		if !errors.As(err, &ume) {
			return fail(StageEvaluate, err)
		}
		res.Warnings = append(res.Warnings, ume.Error())
	}
	res.Metrics = metrics
	res.Holdout = make([]HoldoutRow, holdout.Len())
	for i, w := range holdout.Windows {
		res.Holdout[i] = HoldoutRow{
			Time:      series.Points[w.Index].Time,
			Actual:    metrics.Actuals[i],
			Predicted: metrics.Predictions[i],
		}
	}
	done(StageEvaluate, started)

	// forecast
	started = time.Now()
	last, _ := series.Last()
	points, err := RecursiveForecast(model, scaler, normalized[len(normalized)-L:], last.Time, cfg.Horizon)
	if err != nil {
		return fail(StageForecast, err)
	}
	res.Forecast = points
	done(StageForecast, started)

	return res, nil
}
