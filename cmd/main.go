package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"product-listing/config"
	"product-listing/handler"
	"product-listing/producer"
	"product-listing/repository"
	"product-listing/service"
	"product-listing/telemetry"
	"product-listing/telemetryfs"
	"product-listing/view"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

var (
	BuildCommit = "undefined"
	BuildTag    = "1.0.0"
	BuildTime   = "undefined"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := telemetryfs.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("creating logger: %w", err))
	}

	defer func() {
		_ = logger.Sync()
	}()

	logger = logger.With(
		zap.String("build_commit", BuildCommit),
		zap.String("build_tag", BuildTag),
		zap.String("build_time", BuildTime),
		zap.Int("go_max_procs", runtime.GOMAXPROCS(0)),
		zap.Int("runtime_num_cpu", runtime.NumCPU()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = telemetryfs.WithLogger(ctx, logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("service stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics := telemetry.NewPrometheusMetrics(telemetry.WithRegisterer(registry))

	tracer, err := telemetryfs.NewTracer(ctx, cfg.Tracer(), BuildTag)
	if err != nil {
		return fmt.Errorf("creating the tracer: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Error("error flushing tracer", zap.Error(err))
		}
	}()

	ctx = telemetryfs.WithTracer(ctx, tracer.OTelTracer)

	metricsServer, err := telemetryfs.NewMetricsServer(cfg.MetricsAddr, telemetry.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("creating metrics server: %w", err)
	}

	productRepo := repository.NewProductRepository(tracer.OTelTracer)
	productService := service.NewProductService(productRepo, tracer.OTelTracer, metrics)
	productHandle := handler.NewProductHandle(productService, metrics, tracer.OTelTracer)

	red := telemetryfs.NewRedMetricsMiddleware(telemetry.WithRegisterer(registry))
	router := handler.NewServer(logger, tracer.OTelTracer, view.New(view.Options{}), red)
	handler.RegisterRoutes(router, handler.Routes(productHandle))

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// one slot per server so a failing listener never blocks
	errCh := make(chan error, 2)

	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		metrics.CollectRuntime(ctx, cfg.RuntimeMetricsInterval)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("server started",
			zap.String("address", server.Addr),
		)

		if serverErr := server.ListenAndServe(); serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listening on %s: %w", server.Addr, serverErr)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("metrics server started",
			zap.String("address", metricsServer.Addr),
		)

		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listening on %s for metrics: %w", metricsServer.Addr, err)
		}
	}()

	if cfg.ProducerEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			producer.NewProductProducer(cfg.ProducerTarget, cfg.ProducerInterval).Run(ctx)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
		logger.Error("server failed, shutting down", zap.Error(runErr))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("shutting down server: %w", err)
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("shutting down metrics server: %w", err)
	}

	cancel()
	wg.Wait()

	return runErr
}
