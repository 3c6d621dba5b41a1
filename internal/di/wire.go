//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"FinRisk/pkg/config"
	"FinRisk/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,
		ProvideStreamMetrics,

		// Infrastructure
		ProvideSnapshotStore,
		ProvideCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideReportPublisher,

		// Live stream
		ProvideHub,
		ProvideNotifier,

		// Use cases
		ProvideEngine,
		ProvideRiskScreening,
		ProvideAnalysis,
		ProvideKafkaSnapshotsHandler,

		// Transport
		ProvideRateLimiter,
		ProvideRiskHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
