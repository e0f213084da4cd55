package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	logger_adapter "rental-dashboard/internal/adapters/logger"
	"rental-dashboard/internal/adapters/memory"
	"rental-dashboard/internal/adapters/metrics"
	postgres_adapter "rental-dashboard/internal/adapters/postgres"
	"rental-dashboard/internal/adapters/rest"
	sqlite_adapter "rental-dashboard/internal/adapters/sqlite"
	"rental-dashboard/internal/adapters/tracing"
	"rental-dashboard/internal/configs"
	"rental-dashboard/internal/constants"
	"rental-dashboard/internal/contracts"
	"rental-dashboard/internal/core/domain"
	"rental-dashboard/internal/core/port"
	"rental-dashboard/internal/core/usecase"
	"syscall"
	"time"

	fluentlogger "rental-dashboard/pkg/fluent_logger"
	"rental-dashboard/pkg/postgres"
	"rental-dashboard/pkg/sqlite"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// App – структура приложения
type App struct {
	config          *configs.AppConfig
	store           port.DocumentStorePort
	apiServer       *rest.Server
	fluentClient    *fluent.Fluent
	shutdownTracing func(context.Context) error
	logger          port.LoggerPort
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. ТРАССИРОВКА И МЕТРИКИ ---
	shutdownTracing, err := tracing.Init(context.Background(), tracing.Config{
		Enabled:     appConfig.Tracing.Enabled,
		Endpoint:    appConfig.Tracing.Endpoint,
		ServiceName: appConfig.AppName,
		Environment: appConfig.Tracing.Environment,
	})
	if err != nil {
		appLogger.Error("Failed to initialize tracing", err, nil)
		closeFluent(fluentClient)
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	appLogger.Info("Tracing initialized", port.Fields{"enabled": appConfig.Tracing.Enabled})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	storeMetrics, err := metrics.NewStoreMetrics(registry, constants.MetricsNamespace)
	if err != nil {
		appLogger.Error("Failed to register store metrics", err, nil)
		closeFluent(fluentClient)
		return nil, fmt.Errorf("failed to register store metrics: %w", err)
	}

	// --- 4. ХРАНИЛИЩЕ ДОКУМЕНТОВ ---
	rawStore, err := newDocumentStore(context.Background(), appConfig.Store)
	if err != nil {
		appLogger.Error("Failed to initialize document store", err, port.Fields{"driver": appConfig.Store.Driver})
		shutdownTracing(context.Background())
		closeFluent(fluentClient)
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}
	store := metrics.NewInstrumentedStore(rawStore, storeMetrics)
	appLogger.Info("Document store initialized", port.Fields{
		"driver": appConfig.Store.Driver, "collection": appConfig.Store.Collection,
	})

	validator, err := contracts.NewPostSchemaValidator(constants.PostSchemaVersion)
	if err != nil {
		appLogger.Error("Failed to compile post schema", err, nil)
		store.Close()
		shutdownTracing(context.Background())
		closeFluent(fluentClient)
		return nil, fmt.Errorf("failed to compile post schema: %w", err)
	}

	// --- 5. USE CASES ---
	collection := appConfig.Store.Collection
	fetchListingsUseCase := usecase.NewFetchListingsUseCase(store, validator, collection,
		appConfig.Listings.Window, appConfig.Listings.PageSize)
	computeStatsUseCase := usecase.NewComputeStatsUseCase(store, validator, collection, usecase.StatsLimits{
		HistoryPosts: appConfig.Stats.HistoryLimit,
		RecentErrors: appConfig.Stats.RecentErrors,
	}, time.Now)
	historyUseCase := usecase.NewGetProcessingHistoryUseCase(store, validator, collection, time.Now)
	filterOptionsUseCase := usecase.NewGetFilterOptionsUseCase(store, validator, collection, appConfig.Listings.Window)

	appLogger.Info("All use cases initialized.", nil)

	// --- 6. REST API ---
	apiServer := rest.NewServer(appConfig.Rest.PORT,
		appConfig.Rest.AllowedOrigins,
		rest.NewListingsHandler(fetchListingsUseCase),
		rest.NewStatsHandler(computeStatsUseCase, historyUseCase),
		rest.NewFilterHandler(filterOptionsUseCase),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return &App{
		config:          appConfig,
		store:           store,
		apiServer:       apiServer,
		fluentClient:    fluentClient,
		shutdownTracing: shutdownTracing,
		logger:          appLogger,
	}, nil
}

// newDocumentStore открывает хранилище выбранного драйвера.
func newDocumentStore(ctx context.Context, cfg configs.StoreConfig) (port.DocumentStorePort, error) {
	switch cfg.Driver {
	case configs.StoreDriverPostgres:
		pool, err := postgres.NewClient(ctx, postgres.Config{
			DatabaseURL:    cfg.DatabaseURL,
			ConnectTimeout: 10 * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return postgres_adapter.NewPostgresDocumentStore(pool)
	case configs.StoreDriverSQLite:
		db, err := sqlite.NewClient(ctx, sqlite.Config{Path: cfg.SQLitePath, ReadOnly: true})
		if err != nil {
			return nil, err
		}
		return sqlite_adapter.NewSQLiteDocumentStore(db)
	case configs.StoreDriverMemory:
		if cfg.DocumentsFile == "" {
			return memory.NewDocumentStore(nil), nil
		}
		return memory.LoadFromFile(cfg.DocumentsFile)
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreDriver, cfg.Driver)
}

// Run запускает HTTP-сервер и ждет сигнала на завершение.
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if a.apiServer != nil {
			if err := a.apiServer.Stop(ctx); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.store != nil {
			if err := a.store.Close(); err != nil {
				a.logger.Error("Error closing document store", err, nil)
			}
		}

		if a.shutdownTracing != nil {
			if err := a.shutdownTracing(ctx); err != nil {
				a.logger.Error("Error shutting down tracer provider", err, nil)
			}
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
		return err
	}
}

func closeFluent(client *fluent.Fluent) {
	if client != nil {
		client.Close()
	}
}

func parseLogLevel(levelStr string) slog.Level {
	level, ok := logger_adapter.ParseLevel(levelStr)
	if !ok {
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
	}
	return level
}
