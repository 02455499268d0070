package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"StockHub/internal/domain/models"
	domrepo "StockHub/internal/domain/repository"
	pkgch "StockHub/pkg/clickhouse"
	applogger "StockHub/pkg/logger"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CHPriceStore reads daily candles from ClickHouse.
type CHPriceStore struct {
	db       *sql.DB
	database string
	table    string
	l        *applogger.Logger
}

func NewCHPriceStore(ch *pkgch.Client, table string, l *applogger.Logger) (*CHPriceStore, error) {
	return newCHPriceStore(ch.DB(), ch.Database(), table, l)
}

func newCHPriceStore(db *sql.DB, database, table string, l *applogger.Logger) (*CHPriceStore, error) {
	if !identRe.MatchString(table) || !identRe.MatchString(database) {
		return nil, fmt.Errorf("invalid clickhouse identifier %q.%q", database, table)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CHPriceStore{db: db, database: database, table: table, l: l}, nil
}

func (s *CHPriceStore) Candles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT day, symbol, open, high, low, close, volume
        FROM %s.%s FINAL
        WHERE symbol = ? AND day >= ? AND day <= ?
        ORDER BY day ASC
    `, s.database, s.table)

	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		s.l.Error("clickhouse candles query error",
			applogger.Symbol(symbol),
			applogger.String("table", s.table),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query candles: %w", err)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, 512)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Time, &c.Symbol, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		c.Time = c.Time.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	s.l.Debug("clickhouse candles ok",
		applogger.Symbol(symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

// StoreCandles inserts candles in one batch.
func (s *CHPriceStore) StoreCandles(ctx context.Context, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s.%s (symbol, day, open, high, low, close, volume)", s.database, s.table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx, c.Symbol, c.Time, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("append candle: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (s *CHPriceStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHPriceStore) Close() error {
	return s.db.Close()
}

var _ domrepo.PriceStore = (*CHPriceStore)(nil)
