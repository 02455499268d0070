package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	xhttp "StockHub/pkg/http"
)

type closeRecorder struct {
	order *[]string
	name  string
}

func (c closeRecorder) Close() error {
	*c.order = append(*c.order, c.name)
	return nil
}

func TestRunContextShutsDownInOrder(t *testing.T) {
	srv := xhttp.NewServer(nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithMetricsPath(""),
		xhttp.WithTimeouts(time.Second, time.Second, time.Second),
	)
	var order []string
	app := New(srv, nil, nil,
		closeRecorder{&order, "publisher"},
		nil,
		closeRecorder{&order, "store"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Equal(t, []string{"publisher", "store"}, order)
}
