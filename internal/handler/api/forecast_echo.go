package api

import (
	"context"
	"net/http"
	"time"

	"StockHub/internal/domain/models"
	"StockHub/internal/usecase"
	xhttp "StockHub/pkg/http"
	xlogger "StockHub/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ForecastRunner is the forecast use case as seen by HTTP.
type ForecastRunner interface {
	Forecast(ctx context.Context, p usecase.ForecastParams) (*models.ForecastReport, error)
}

// SeriesReader is the series use case as seen by HTTP.
type SeriesReader interface {
	Series(ctx context.Context, symbol string, from, to time.Time) (*models.SeriesReport, error)
	Tickers() []string
	Health(ctx context.Context) error
}

// ForecastEchoHandler serves the forecasting API.
type ForecastEchoHandler struct {
	logger   *xlogger.Logger
	forecast ForecastRunner
	series   SeriesReader
}

func NewForecastEchoHandler(logger *xlogger.Logger, f ForecastRunner, s SeriesReader) *ForecastEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ForecastEchoHandler{logger: logger, forecast: f, series: s}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/series", h.Series)
	g.GET("/tickers", h.Tickers)
	e.GET("/healthz", h.Health)
}

// Forecast trains on [from, to] and returns metrics plus the horizon forecast.
func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, to, appErr := parseRange(req.From, req.To)
	if appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}

	res, err := h.forecast.Forecast(c.Request().Context(), usecase.ForecastParams{
		Symbol:   req.Symbol,
		From:     from,
		To:       to,
		Horizon:  req.Horizon,
		Epochs:   req.Epochs,
		Lookback: req.Lookback,
		Refresh:  req.Refresh,
	})
	if err != nil {
		return h.fail(c, "forecast", req.Symbol, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.SuccessResponse(c, res)
}

// Series returns closes and describe statistics for [from, to].
func (h *ForecastEchoHandler) Series(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, to, appErr := parseRange(req.From, req.To)
	if appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}

	res, err := h.series.Series(c.Request().Context(), req.Symbol, from, to)
	if err != nil {
		return h.fail(c, "series", req.Symbol, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Tickers(c echo.Context) error {
	t := h.series.Tickers()
	return xhttp.ListResponse(c, t, int64(len(t)))
}

func (h *ForecastEchoHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.series.Health(ctx); err != nil {
		h.logger.Warn("health check failed", xlogger.Error(err))
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"price_store": err.Error()})
	}
	return xhttp.SuccessResponse(c, map[string]string{"price_store": "ok"})
}

func (h *ForecastEchoHandler) fail(c echo.Context, op, symbol string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" usecase error", xlogger.Symbol(symbol), xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func parseRange(fromS, toS string) (time.Time, time.Time, *xhttp.AppError) {
	from, err := xhttp.ParseDate(fromS)
	if err != nil {
		return time.Time{}, time.Time{}, xhttp.BadRequestError("from", err.Error())
	}
	to, err := xhttp.ParseDate(toS)
	if err != nil {
		return time.Time{}, time.Time{}, xhttp.BadRequestError("to", err.Error())
	}
	return from, to, nil
}
