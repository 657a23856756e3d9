package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evm-coprocessor/copro/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherMetrics(t *testing.T) {
	m := NewWatcherMetrics()

	m.JobProcessed()
	m.JobProcessed()
	m.CallbackSubmitted(models.CallbackStatusOK)
	m.CallbackSubmitted(models.CallbackStatusNonceTooLow)
	m.BlockHeight(42)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.jobs))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.callbacks.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.callbacks.WithLabelValues("nonce too low")))
	assert.Equal(t, float64(42), testutil.ToFloat64(m.blockHeight))
}

func TestWatcherMetrics_Handler(t *testing.T) {
	m := NewWatcherMetrics()
	m.JobProcessed()
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "copro_jobs_processed_total 1")

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
