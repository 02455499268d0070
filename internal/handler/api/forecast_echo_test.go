package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockHub/internal/domain/models"
	"StockHub/internal/forecast"
	"StockHub/internal/usecase"
)

type stubForecaster struct {
	got    usecase.ForecastParams
	report *models.ForecastReport
	err    error
}

func (s *stubForecaster) Forecast(_ context.Context, p usecase.ForecastParams) (*models.ForecastReport, error) {
	s.got = p
	return s.report, s.err
}

type stubSeries struct {
	report    *models.SeriesReport
	err       error
	healthErr error
}

func (s *stubSeries) Series(context.Context, string, time.Time, time.Time) (*models.SeriesReport, error) {
	return s.report, s.err
}
func (s *stubSeries) Tickers() []string              { return []string{"AAPL", "MSFT"} }
func (s *stubSeries) Health(context.Context) error { return s.healthErr }

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func serve(t *testing.T, h *ForecastEchoHandler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestForecastOK(t *testing.T) {
	f := &stubForecaster{report: &models.ForecastReport{Symbol: "AAPL", Horizon: 7}}
	h := NewForecastEchoHandler(nil, f, &stubSeries{})

	rec, env := serve(t, h, "/api/forecast?symbol=AAPL&from=2023-01-01&to=2024-01-01")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "private, max-age=300", rec.Header().Get(echo.HeaderCacheControl))

	var r models.ForecastReport
	require.NoError(t, json.Unmarshal(env.Data, &r))
	assert.Equal(t, "AAPL", r.Symbol)

	assert.Equal(t, 7, f.got.Horizon, "defaults applied")
	assert.Equal(t, 10, f.got.Epochs)
	assert.Equal(t, 60, f.got.Lookback)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), f.got.From)
	assert.False(t, f.got.Refresh)
}

func TestForecastValidation(t *testing.T) {
	h := NewForecastEchoHandler(nil, &stubForecaster{}, &stubSeries{})
	cases := map[string]string{
		"missing symbol": "/api/forecast?from=2023-01-01&to=2024-01-01",
		"bad date":       "/api/forecast?symbol=AAPL&from=01/01/2023&to=2024-01-01",
		"horizon range":  "/api/forecast?symbol=AAPL&from=2023-01-01&to=2024-01-01&horizon=500",
		"lookback range": "/api/forecast?symbol=AAPL&from=2023-01-01&to=2024-01-01&lookback=1",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			rec, _ := serve(t, h, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestForecastErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"range", &usecase.RangeError{Field: "to", Reason: "end date is in the future"}, 400, "ERR_INVALID_RANGE"},
		{"insufficient", &forecast.StageError{Stage: forecast.StageWindow, Err: &forecast.InsufficientDataError{Need: 62, Have: 10}}, 422, "ERR_INSUFFICIENT_DATA"},
		{"degenerate", &forecast.StageError{Stage: forecast.StageNormalize, Err: &forecast.DegenerateRangeError{Value: 5}}, 422, "ERR_DEGENERATE_RANGE"},
		{"diverged", &forecast.StageError{Stage: forecast.StageTrain, Err: &forecast.NonConvergentTrainingError{Epoch: 3}}, 500, "ERR_TRAINING_DIVERGED"},
		{"busy", usecase.ErrForecastInProgress, 409, "ERR_CONFLICT"},
		{"no data", usecase.ErrNoPriceData, 404, "ERR_NOT_FOUND"},
		{"upstream", fmt.Errorf("fetch prices: %w: %w", usecase.ErrPriceSource, errors.New("503")), 502, "ERR_UPSTREAM"},
		{"timeout", &forecast.StageError{Stage: forecast.StageTrain, Err: context.DeadlineExceeded}, 504, "ERR_TIMEOUT"},
		{"other", errors.New("boom"), 500, "ERR_INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewForecastEchoHandler(nil, &stubForecaster{err: tc.err}, &stubSeries{})
			rec, env := serve(t, h, "/api/forecast?symbol=AAPL&from=2023-01-01&to=2024-01-01")
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.status, env.Status)

			var errs []map[string]interface{}
			require.NoError(t, json.Unmarshal(env.Data, &errs))
			require.Len(t, errs, 1)
			assert.Equal(t, tc.code, errs[0]["code"])
		})
	}
}

func TestSeriesAndTickers(t *testing.T) {
	s := &stubSeries{report: &models.SeriesReport{Symbol: "MSFT", Summary: models.SeriesSummary{Count: 3}}}
	h := NewForecastEchoHandler(nil, &stubForecaster{}, s)

	rec, env := serve(t, h, "/api/series?symbol=MSFT&from=2024-01-01&to=2024-02-01")
	assert.Equal(t, http.StatusOK, rec.Code)
	var r models.SeriesReport
	require.NoError(t, json.Unmarshal(env.Data, &r))
	assert.Equal(t, 3, r.Summary.Count)

	rec, env = serve(t, h, "/api/tickers")
	assert.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Rows  []string `json:"rows"`
		Total int64    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, []string{"AAPL", "MSFT"}, list.Rows)
	assert.EqualValues(t, 2, list.Total)
}

func TestHealth(t *testing.T) {
	h := NewForecastEchoHandler(nil, &stubForecaster{}, &stubSeries{})
	rec, _ := serve(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	h = NewForecastEchoHandler(nil, &stubForecaster{}, &stubSeries{healthErr: errors.New("ch down")})
	rec, _ = serve(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
