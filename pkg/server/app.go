package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockHub/internal/scheduler"
	xhttp "StockHub/pkg/http"
	applogger "StockHub/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	httpServer *xhttp.Server
	scheduler  *scheduler.Scheduler
	closers    []io.Closer
	log        *applogger.Logger
}

// New creates an App. sched may be nil when scheduling is disabled.
// closers are closed in order after the HTTP server and scheduler stop.
func New(srv *xhttp.Server, sched *scheduler.Scheduler, l *applogger.Logger, closers ...io.Closer) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{httpServer: srv, scheduler: sched, closers: closers, log: l}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	if a.scheduler != nil {
		a.scheduler.Start()
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops intake first, then releases infrastructure clients.
func (a *App) shutdown() error {
	timeout := a.httpServer.ShutdownTimeout()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}
	if a.scheduler != nil {
		if err := a.scheduler.Stop(ctx); err != nil {
			a.log.Warn("scheduler stop error", applogger.Error(err))
		}
	}
	for _, c := range a.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
