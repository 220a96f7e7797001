package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCatalogueRefreshes(t *testing.T) {
	before := testutil.ToFloat64(CatalogueRefreshes.WithLabelValues(ResultFailure))

	CatalogueRefreshes.WithLabelValues(ResultFailure).Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(CatalogueRefreshes.WithLabelValues(ResultFailure)))
}

func TestRowsRejected(t *testing.T) {
	before := testutil.ToFloat64(RowsRejected.WithLabelValues("missing_name"))

	RowsRejected.WithLabelValues("missing_name").Add(3)

	assert.Equal(t, before+3, testutil.ToFloat64(RowsRejected.WithLabelValues("missing_name")))
}
