package api

import (
	"context"
	"errors"
	"net/http"

	"StockHub/internal/forecast"
	"StockHub/internal/usecase"
	xhttp "StockHub/pkg/http"
)

// toAppError maps use case and pipeline failures onto HTTP errors.
func toAppError(err error) *xhttp.AppError {
	var (
		appErr *xhttp.AppError
		rng    *usecase.RangeError
		ide    *forecast.InsufficientDataError
		split  *forecast.SplitTooSmallError
		empty  *forecast.EmptySeriesError
		degen  *forecast.DegenerateRangeError
		nc     *forecast.NonConvergentTrainingError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &rng):
		return xhttp.NewAppError("ERR_INVALID_RANGE", rng.Field, rng.Reason, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrForecastInProgress):
		return xhttp.ConflictError("an identical forecast is already running, retry shortly")
	case errors.Is(err, usecase.ErrNoPriceData):
		return xhttp.NotFoundErrorf("no closing prices in the requested range")
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.GatewayTimeoutError("forecast did not finish in time").WithError(err)
	case errors.Is(err, usecase.ErrPriceSource):
		return xhttp.BadGatewayError("price source unavailable").WithError(err)
	case errors.As(err, &ide), errors.As(err, &split), errors.As(err, &empty):
		return xhttp.UnprocessableError("ERR_INSUFFICIENT_DATA", err.Error())
	case errors.As(err, &degen):
		return xhttp.UnprocessableError("ERR_DEGENERATE_RANGE", err.Error())
	case errors.As(err, &nc), errors.Is(err, forecast.ErrNonFinitePrediction):
		return xhttp.InternalError("ERR_TRAINING_DIVERGED", err.Error())
	default:
		return xhttp.InternalError("", "forecast failed").WithError(err)
	}
}
