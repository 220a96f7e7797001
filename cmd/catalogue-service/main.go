package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/sheets-storefront/internal/config"
	httpAPI "github.com/iyhunko/sheets-storefront/internal/http"
	"github.com/iyhunko/sheets-storefront/internal/http/controller"
	"github.com/iyhunko/sheets-storefront/internal/logger"
	"github.com/iyhunko/sheets-storefront/internal/metrics"
	"github.com/iyhunko/sheets-storefront/internal/repository"
	"github.com/iyhunko/sheets-storefront/internal/repository/memory"
	"github.com/iyhunko/sheets-storefront/internal/repository/sql"
	"github.com/iyhunko/sheets-storefront/internal/service"
	"github.com/iyhunko/sheets-storefront/internal/source"
	sqspkg "github.com/iyhunko/sheets-storefront/internal/sqs"
)

func main() {
	logger.InitJSONLogger()

	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)
	logger.Setup(conf.Log.Level, conf.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var snapshotRepository repository.SnapshotRepository
	switch conf.Store.Backend {
	case config.StorePostgres:
		db, err := sql.StartDB(ctx, conf.Database)
		handleErr("starting database", err)
		defer db.Close()
		snapshotRepository = sql.NewSnapshotRepository(db, conf.Store.Retention)
	default:
		snapshotRepository = memory.NewSnapshotRepository(conf.Store.Retention)
	}

	src, err := source.New(ctx, conf.Source, &http.Client{})
	handleErr("creating catalogue source", err)

	// Inquiries are only forwarded when a queue is configured
	var publisher service.InquiryPublisher
	if conf.AWS.SQSQueueURL != "" {
		sqsClient, err := sqspkg.NewClientFromConfig(ctx, conf.AWS)
		handleErr("creating SQS client", err)
		publisher = sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)
	}

	catalogueService := service.NewCatalogueService(src, snapshotRepository, publisher, service.Options{
		FetchTimeout:     conf.Source.FetchTimeout,
		MessagingBaseURL: conf.Catalogue.MessagingBaseURL,
	})

	if err := catalogueService.Restore(ctx); err != nil {
		slog.Info("no stored catalogue to restore", slog.Any("err", err))
	}
	if _, err := catalogueService.Refresh(ctx); err != nil {
		// keep serving the restored catalogue, if any; the worker retries
		slog.Error("initial catalogue refresh failed", slog.Any("err", err))
	}

	refreshWorker := service.NewRefreshWorker(catalogueService, conf.Catalogue.RefreshInterval)
	go refreshWorker.Start(ctx)

	metrics.StartMetricsServer(conf)

	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	ctr := controller.New(conf)
	catalogueCtr := controller.NewCatalogueController(catalogueService)
	adminCtr := controller.NewAdminController(catalogueService)
	router := httpAPI.InitRouter(conf, gin.New(), ctr, catalogueCtr, adminCtr)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("catalogue service listening", slog.String("port", conf.HTTPServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("shutting down gracefully")

	refreshWorker.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down HTTP server", slog.Any("err", err))
	}
}

func handleErr(msg string, err error) {
	if err != nil {
		slog.Error("error while "+msg, slog.Any("err", err))
		os.Exit(1)
	}
}
