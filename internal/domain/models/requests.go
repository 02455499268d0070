package models

// Requests for forecasting HTTP endpoints. Dates are YYYY-MM-DD.

type ForecastRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required,max=12"`
	From     string `query:"from" json:"from" validate:"required,datetime=2006-01-02"`
	To       string `query:"to" json:"to" validate:"required,datetime=2006-01-02"`
	Horizon  int    `query:"horizon" json:"horizon" default:"7" validate:"gte=1,lte=60"`
	Epochs   int    `query:"epochs" json:"epochs" default:"10" validate:"gte=1,lte=200"`
	Lookback int    `query:"lookback" json:"lookback" default:"60" validate:"gte=2,lte=365"`
	Refresh  bool   `query:"refresh" json:"refresh"`
}

type SeriesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=12"`
	From   string `query:"from" json:"from" validate:"required,datetime=2006-01-02"`
	To     string `query:"to" json:"to" validate:"required,datetime=2006-01-02"`
}
