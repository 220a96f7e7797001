package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// ResultSuccess labels a refresh that produced a new or unchanged catalogue.
	ResultSuccess = "success"
	// ResultFailure labels a refresh that kept serving the previous catalogue.
	ResultFailure = "error"
)

var (
	// CatalogueRefreshes counts refresh attempts by result.
	CatalogueRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogue_refresh_total",
		Help: "The total number of catalogue refresh attempts",
	}, []string{"result"})

	// RowsRejected counts source rows dropped by the normalizer, by reason.
	RowsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogue_rows_rejected_total",
		Help: "The total number of source rows dropped during normalization",
	}, []string{"reason"})

	// ProductsServed is the number of products in the catalogue currently served.
	ProductsServed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalogue_products",
		Help: "The number of products in the current catalogue",
	})

	// LastRefresh is the unix time of the last successful refresh.
	LastRefresh = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalogue_last_refresh_timestamp_seconds",
		Help: "Unix time of the last successful catalogue refresh",
	})

	// FetchDuration observes how long a source fetch takes.
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalogue_fetch_duration_seconds",
		Help:    "Duration of catalogue source fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	// InquiriesCreated counts purchase inquiry links handed out.
	InquiriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inquiries_created_total",
		Help: "The total number of purchase inquiries created",
	})

	// InquiriesReceived counts inquiry messages consumed from the queue.
	InquiriesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inquiries_received_total",
		Help: "The total number of purchase inquiry messages consumed",
	})
)
