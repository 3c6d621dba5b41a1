package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FinRisk/internal/domain/repository"
	"FinRisk/internal/handler/stream"
	"FinRisk/internal/service/ratelimit"
	"FinRisk/pkg/cache"
	"FinRisk/pkg/config"
	xhttp "FinRisk/pkg/http"
	pkgkafka "FinRisk/pkg/kafka"
	applogger "FinRisk/pkg/logger"
)

// Deps are the long-lived components the App starts and stops.
// Consumer, Handler and Limiter may be nil.
type Deps struct {
	Config    *config.Config
	Logger    *applogger.Logger
	HTTP      *xhttp.Server
	Hub       *stream.Hub
	Consumer  *pkgkafka.Consumer
	Handler   pkgkafka.MessageHandler
	Store     repository.SnapshotStore
	Cache     cache.Service
	Publisher repository.ReportPublisher
	Limiter   *ratelimit.Limiter
}

// App encapsulates the entire application lifecycle.
type App struct {
	Deps
	stopSweep chan struct{}
}

func New(d Deps) *App {
	if d.Logger == nil {
		d.Logger = applogger.NewNop()
	}
	return &App{Deps: d, stopSweep: make(chan struct{})}
}

// Start launches every background component. Listen errors arrive on the returned channel.
func (a *App) Start() (<-chan error, error) {
	l := a.Logger

	go a.Hub.Run()

	if a.Limiter != nil {
		go a.Limiter.Run(time.Minute, a.stopSweep)
	}

	if a.Consumer != nil && a.Handler != nil {
		a.Consumer.RegisterHandler(a.Handler)
		if err := a.Consumer.Start(); err != nil {
			return nil, err
		}
		l.Info("kafka ingest consumer started", applogger.String("topic", a.Handler.Topic()))
	}

	errCh := a.HTTP.Start()
	l.Info("finrisk started",
		applogger.String("env", a.Config.Environment),
		applogger.String("backend", a.Config.Backend.Type),
		applogger.Bool("kafka", a.Config.Kafka.Enabled),
		applogger.Bool("redis", a.Config.Redis.Enabled),
	)
	return errCh, nil
}

// Run starts the application and blocks until interrupted or the listener fails.
func (a *App) Run() error {
	errCh, err := a.Start()
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.Logger.Info("shutdown signal received", applogger.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok && err != nil {
			runErr = err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	return errors.Join(runErr, a.Shutdown(ctx))
}

// Shutdown stops intake first, then flushes and closes the sinks.
func (a *App) Shutdown(ctx context.Context) error {
	l := a.Logger
	l.Info("shutting down...")

	var errs []error
	if err := a.HTTP.Stop(ctx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	if a.Consumer != nil {
		if err := a.Consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	close(a.stopSweep)
	a.Hub.Stop()

	// the collector publishes through the producer, so drain it before closing the publisher
	l.RemoveCollector()

	if err := a.Publisher.Close(); err != nil {
		l.Warn("report publisher close error", applogger.Error(err))
	}
	if err := a.Cache.Close(); err != nil {
		l.Warn("cache close error", applogger.Error(err))
	}
	if err := a.Store.Close(); err != nil {
		l.Warn("snapshot store close error", applogger.Error(err))
	}

	l.Info("shutdown complete")
	return errors.Join(errs...)
}
