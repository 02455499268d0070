package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"StockHub/internal/forecast"
)

// Recorder implements domain repository.Metrics and forecast.Observer using Prometheus.
type Recorder struct {
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	runs          *prometheus.CounterVec
	lastForecast  *prometheus.GaugeVec
	finalLoss     *prometheus.GaugeVec
	epochs        *prometheus.CounterVec
	cache         *prometheus.CounterVec
	published     *prometheus.CounterVec
}

// New registers the recorder's collectors with the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockhub_pipeline_stage_duration_seconds",
				Help:    "Duration of each forecast pipeline stage",
				Buckets: []float64{.001, .01, .1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"stage"},
		),
		stageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockhub_pipeline_failures_total",
				Help: "Pipeline runs that halted, by failing stage",
			},
			[]string{"stage"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockhub_forecast_runs_total",
				Help: "Forecast requests by result",
			},
			[]string{"result"},
		),
		lastForecast: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockhub_forecast_last_price",
				Help: "Final forecast price for a symbol",
			},
			[]string{"symbol"},
		),
		finalLoss: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockhub_training_final_loss",
				Help: "Training loss after the last epoch",
			},
			[]string{"symbol"},
		),
		epochs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockhub_training_epochs_total",
				Help: "Completed training epochs",
			},
			[]string{"symbol"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockhub_cache_requests_total",
				Help: "Forecast cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockhub_forecast_events_total",
				Help: "Forecast events handed to the publisher",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(r.stageDuration, r.stageFailures, r.runs, r.lastForecast,
		r.finalLoss, r.epochs, r.cache, r.published)
	return r
}

// OnStage records a completed pipeline stage.
func (r *Recorder) OnStage(_ string, stage forecast.Stage, took time.Duration) {
	r.stageDuration.WithLabelValues(string(stage)).Observe(took.Seconds())
}

// OnEpoch records training progress.
func (r *Recorder) OnEpoch(symbol string, e forecast.LossEpoch) {
	r.epochs.WithLabelValues(symbol).Inc()
	r.finalLoss.WithLabelValues(symbol).Set(e.TrainLoss)
}

// RecordStageFailure counts a run halted at stage.
func (r *Recorder) RecordStageFailure(stage string) {
	r.stageFailures.WithLabelValues(stage).Inc()
}

// RecordRun counts a forecast request outcome (ok, cached, error, busy).
func (r *Recorder) RecordRun(result string) {
	r.runs.WithLabelValues(result).Inc()
}

// RecordForecast sets the last forecast price for symbol.
func (r *Recorder) RecordForecast(symbol string, price float64) {
	r.lastForecast.WithLabelValues(symbol).Set(price)
}

// RecordCache counts a cache hit or miss.
func (r *Recorder) RecordCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cache.WithLabelValues(outcome).Inc()
}

// RecordPublish counts a forecast event publish attempt.
func (r *Recorder) RecordPublish(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.published.WithLabelValues(result).Inc()
}
