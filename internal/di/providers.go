package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"FinRisk/internal/domain/repository"
	"FinRisk/internal/handler/api"
	"FinRisk/internal/handler/stream"
	internalrepo "FinRisk/internal/repository"
	svcmetrics "FinRisk/internal/service/metrics"
	"FinRisk/internal/service/ratelimit"
	"FinRisk/internal/services/risk"
	"FinRisk/internal/usecase"
	"FinRisk/pkg/cache"
	pkgch "FinRisk/pkg/clickhouse"
	"FinRisk/pkg/config"
	xhttp "FinRisk/pkg/http"
	pkgkafka "FinRisk/pkg/kafka"
	applogger "FinRisk/pkg/logger"
	"FinRisk/pkg/metrics"
	"FinRisk/pkg/server"
)

// ProvideLogger builds the application logger from the logging section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       cfg.Logging.Output,
		CollectWarns: cfg.Logging.Collector.CollectWarns,
	})
}

// ProvideRegistry returns the registry every collector registers on and /metrics serves.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

func ProvideStreamMetrics(reg *prometheus.Registry) *svcmetrics.StreamMetrics {
	return svcmetrics.NewStreamMetrics(reg)
}

// ProvideSnapshotStore picks the storage backend from backend.type.
func ProvideSnapshotStore(cfg *config.Config, l *applogger.Logger) (repository.SnapshotStore, error) {
	if cfg.Backend.Type != "clickhouse" {
		l.Info("using in-memory snapshot store")
		return internalrepo.NewMemorySnapshotStore(), nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := internalrepo.NewCHSnapshotStore(client, l)
	if err := store.Init(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideCache returns an in-process cache, layered over Redis when enabled.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Risk.CacheSize),
			cache.WithMemoryDefaultTTL(cfg.Risk.CacheTTL),
		), nil
	}
	remote, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Host, cfg.Redis.Port),
		cache.WithRedisAuth(cfg.Redis.Password, cfg.Redis.DB),
		cache.WithRedisPool(cfg.Redis.PoolSize, 2, 30*time.Second),
		cache.WithRedisPrefix("finrisk"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("report cache layered over redis", applogger.String("host", cfg.Redis.Host))
	return cache.NewLayeredCache(remote,
		cache.WithLayeredMemorySize(cfg.Risk.CacheSize),
		cache.WithLayeredMemoryTTL(time.Minute),
	), nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithProducerRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideReportPublisher publishes to the reports topic when Kafka is enabled.
func ProvideReportPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.ReportPublisher {
	if producer == nil {
		return internalrepo.NoopReportPublisher{}
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.Topics.Reports)
}

// ProvideKafkaConsumer creates the snapshot ingest consumer, or nil when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger, reg *prometheus.Registry) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
		pkgkafka.WithConsumerRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NewHookChain(pkgkafka.TraceHook()))
	return consumer, nil
}

func ProvideHub(l *applogger.Logger, m *svcmetrics.StreamMetrics) *stream.Hub {
	return stream.NewHub(l.With(applogger.String("component", "stream")), m)
}

func ProvideNotifier(hub *stream.Hub) repository.ReportNotifier {
	return hub
}

// ProvideEngine applies the configured zero-divisor verdict.
func ProvideEngine(cfg *config.Config) *risk.Engine {
	return risk.NewEngine(risk.WithZeroDivisorVerdict(risk.Verdict(cfg.Risk.ZeroDivisorVerdict)))
}

func ProvideRiskScreening(
	cfg *config.Config,
	engine *risk.Engine,
	store repository.SnapshotStore,
	c cache.Service,
	pub repository.ReportPublisher,
	notifier repository.ReportNotifier,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.RiskScreening {
	return usecase.NewRiskScreening(engine, store, c, pub, notifier, m, l, usecase.ScreeningConfig{
		CacheTTL:       cfg.Risk.CacheTTL,
		MaxUploadYears: cfg.Risk.MaxUploadYears,
	})
}

func ProvideAnalysis(store repository.SnapshotStore) *usecase.Analysis {
	return usecase.NewAnalysis(store)
}

func ProvideKafkaSnapshotsHandler(cfg *config.Config, screening *usecase.RiskScreening, m repository.Metrics) *usecase.KafkaSnapshotsHandler {
	return usecase.NewKafkaSnapshotsHandler(cfg.Kafka.Topics.Snapshots, screening, m)
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

func ProvideRiskHandler(
	l *applogger.Logger,
	screening *usecase.RiskScreening,
	analysis *usecase.Analysis,
	store repository.SnapshotStore,
	limiter *ratelimit.Limiter,
) *api.RiskEchoHandler {
	h := api.NewRiskEchoHandler(l, screening, analysis, store)
	if limiter != nil {
		h.WithMutatingMiddleware(ratelimit.Middleware(limiter))
	}
	return h
}

// ProvideHTTPServer builds the Echo server with every route handler.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, reg *prometheus.Registry, rh *api.RiskEchoHandler, hub *stream.Hub) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(xhttp.Handlers{rh, hub},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true, cfg.Server.CORSOrigins...),
		xhttp.WithMetrics(metricsPath, reg, reg),
		xhttp.WithLogger(l),
	)
}

// ProvideApp assembles the application and attaches the error-log collector when configured.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	hub *stream.Hub,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSnapshotsHandler,
	producer *pkgkafka.Producer,
	store repository.SnapshotStore,
	c cache.Service,
	pub repository.ReportPublisher,
	limiter *ratelimit.Limiter,
) *server.App {
	if cfg.Logging.Collector.Enabled && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Collector.Interval,
			CountThreshold: cfg.Logging.Collector.CountThreshold,
			Topic:          cfg.Kafka.Topics.Logs,
			Publisher:      internalrepo.NewLogPublisher(producer),
		})
	}
	return server.New(server.Deps{
		Config:    cfg,
		Logger:    l,
		HTTP:      httpServer,
		Hub:       hub,
		Consumer:  consumer,
		Handler:   kh,
		Store:     store,
		Cache:     c,
		Publisher: pub,
		Limiter:   limiter,
	})
}
