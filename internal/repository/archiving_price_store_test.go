package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockHub/internal/domain/models"
)

type memStore struct {
	candles []models.Candle
	err     error
}

func (m *memStore) Candles(context.Context, string, time.Time, time.Time) ([]models.Candle, error) {
	return m.candles, m.err
}
func (m *memStore) Health(context.Context) error { return nil }
func (m *memStore) Close() error                 { return nil }

type memSink struct {
	stored []models.Candle
	err    error
}

func (m *memSink) StoreCandles(_ context.Context, c []models.Candle) error {
	if m.err != nil {
		return m.err
	}
	m.stored = append(m.stored, c...)
	return nil
}
func (m *memSink) Close() error { return nil }

func TestArchivingPriceStoreMirrorsReads(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	primary := &memStore{candles: []models.Candle{{Time: day, Symbol: "AAPL", Close: 185}}}
	sink := &memSink{}
	s := NewArchivingPriceStore(primary, sink, nil)

	got, err := s.Candles(context.Background(), "AAPL", day, day)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, primary.candles, sink.stored)
}

func TestArchivingPriceStoreIgnoresSinkFailure(t *testing.T) {
	primary := &memStore{candles: []models.Candle{{Symbol: "AAPL", Close: 1}}}
	s := NewArchivingPriceStore(primary, &memSink{err: errors.New("ch down")}, nil)

	got, err := s.Candles(context.Background(), "AAPL", time.Time{}, time.Time{})
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestArchivingPriceStoreSkipsEmptyAndErrors(t *testing.T) {
	sink := &memSink{}
	s := NewArchivingPriceStore(&memStore{}, sink, nil)
	_, err := s.Candles(context.Background(), "AAPL", time.Time{}, time.Time{})
	assert.NoError(t, err)

	boom := errors.New("upstream")
	s = NewArchivingPriceStore(&memStore{err: boom}, sink, nil)
	_, err = s.Candles(context.Background(), "AAPL", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sink.stored)
}
