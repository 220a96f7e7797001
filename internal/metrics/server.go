package metrics

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/iyhunko/sheets-storefront/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StartMetricsServer starts the metrics HTTP server on the configured port.
// It runs in a goroutine and serves the /metrics endpoint.
func StartMetricsServer(conf *config.Config) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		slog.Info("metrics server starting", slog.String("port", conf.MetricsServer.Port))
		metricsServer := &http.Server{
			Addr:              ":" + conf.MetricsServer.Port,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		if err := metricsServer.ListenAndServe(); err != nil {
			slog.Error("error while listening to metrics requests", slog.Any("err", err))
			os.Exit(1)
		}
	}()
}
