package finnhub

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"StockHub/internal/domain/models"
	drepo "StockHub/internal/domain/repository"
	xhttp "StockHub/pkg/http"
	applogger "StockHub/pkg/logger"
)

// ErrRateLimited is returned when the provider answers 429.
var ErrRateLimited = errors.New("finnhub: rate limited")

// Waiter blocks until a request for key may proceed.
type Waiter interface {
	Wait(ctx context.Context, key string) error
}

type candleResponse struct {
	Close  []float64 `json:"c"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Open   []float64 `json:"o"`
	Time   []int64   `json:"t"`
	Volume []float64 `json:"v"`
	Status string    `json:"s"`
}

// Client is a PriceStore backed by the Finnhub REST candle endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	limiter Waiter
	l       *applogger.Logger
}

// New creates a Finnhub candle client. limiter may be nil.
func New(apiKey, baseURL string, timeout time.Duration, limiter Waiter, l *applogger.Logger) *Client {
	if l == nil {
		l = applogger.Nop()
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: limiter,
		l:       l,
	}
}

// Candles fetches daily candles in [from, to]. "no_data" yields an empty slice.
func (c *Client) Candles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "finnhub"); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	var resp candleResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		Headers: map[string]string{
			"X-Finnhub-Token": c.apiKey,
		},
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Add(24*time.Hour-time.Second).Unix(), 10)},
		},
	}, &resp)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.StatusCode == 429 {
			return nil, ErrRateLimited
		}
		c.l.Error("finnhub candle request failed", applogger.Symbol(symbol), applogger.Error(err))
		return nil, fmt.Errorf("finnhub candles %s: %w", symbol, err)
	}

	switch resp.Status {
	case "ok":
	case "no_data":
		c.l.Warn("finnhub returned no data", applogger.Symbol(symbol))
		return []models.Candle{}, nil
	default:
		return nil, fmt.Errorf("finnhub candles %s: status %q", symbol, resp.Status)
	}

	n := len(resp.Time)
	if len(resp.Close) != n || len(resp.Open) != n || len(resp.High) != n || len(resp.Low) != n {
		return nil, fmt.Errorf("finnhub candles %s: ragged arrays", symbol)
	}
	out := make([]models.Candle, n)
	for i := range resp.Time {
		out[i] = models.Candle{
			Time:   time.Unix(resp.Time[i], 0).UTC().Truncate(24 * time.Hour),
			Symbol: symbol,
			Open:   resp.Open[i],
			High:   resp.High[i],
			Low:    resp.Low[i],
			Close:  resp.Close[i],
		}
		if i < len(resp.Volume) {
			out[i].Volume = resp.Volume[i]
		}
	}
	c.l.Debug("finnhub candles ok",
		applogger.Symbol(symbol),
		applogger.Int("rows", n),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

// Health reports whether the client is usable.
func (c *Client) Health(context.Context) error {
	if c.apiKey == "" {
		return errors.New("finnhub api key not configured")
	}
	return nil
}

func (c *Client) Close() error { return nil }

var _ drepo.PriceStore = (*Client)(nil)
