package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iyhunko/sheets-storefront/internal/config"
	"github.com/iyhunko/sheets-storefront/internal/logger"
	"github.com/iyhunko/sheets-storefront/internal/metrics"
	sqspkg "github.com/iyhunko/sheets-storefront/internal/sqs"
)

func main() {
	logger.InitJSONLogger()

	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)
	logger.Setup(conf.Log.Level, conf.Log.Format)
	handleErr("validating queue config", conf.ValidateQueue())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sqsClient, err := sqspkg.NewClientFromConfig(ctx, conf.AWS)
	handleErr("creating SQS client", err)
	consumer := sqspkg.NewConsumer(sqsClient, conf.AWS.SQSQueueURL)

	metrics.StartMetricsServer(conf)

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("consumer stopped", slog.Any("err", err))
		}
	}()

	slog.Info("inquiry notifier started, listening for messages", slog.String("queue_url", conf.AWS.SQSQueueURL))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("shutting down gracefully")
	cancel()
}

func handleErr(msg string, err error) {
	if err != nil {
		slog.Error("error while "+msg, slog.Any("err", err))
		os.Exit(1)
	}
}
