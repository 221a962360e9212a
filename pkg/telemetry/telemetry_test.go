package telemetry

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/cds-snc/payload-signer/pkg/signing"
	"github.com/cds-snc/payload-signer/pkg/testhelpers"
)

func TestInitializeWithoutProviders(t *testing.T) {
	hook, oldLog := testhelpers.SetupTestLogging(&log)
	defer func() { log = *oldLog }()

	os.Unsetenv("TRACER_PROVIDER")
	os.Unsetenv("METRIC_PROVIDER")

	cleaner := Initialize(&signing.Stats{})
	assert.NotPanics(t, cleaner.Cleanup, "cleanup should be a no-op")

	testhelpers.AssertLog(t, hook, 2, logrus.InfoLevel, "METRIC_PROVIDER not set, metrics will not be generated.")
}

func TestSigningCounts(t *testing.T) {
	signed, failed := signingCounts(nil)
	assert.Equal(t, int64(0), signed)
	assert.Equal(t, int64(0), failed)

	signed, failed = signingCounts(&signing.Stats{})
	assert.Equal(t, int64(0), signed)
	assert.Equal(t, int64(0), failed)
}

func TestMetricsAddr(t *testing.T) {
	os.Unsetenv("METRICS_ADDR")
	assert.Equal(t, ":2222", metricsAddr())

	os.Setenv("METRICS_ADDR", "127.0.0.1:9100")
	defer os.Unsetenv("METRICS_ADDR")
	assert.Equal(t, "127.0.0.1:9100", metricsAddr())
}

func TestOpenTelemetryMiddleware(t *testing.T) {
	called := false
	handler := OpenTelemetryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	req, _ := http.NewRequest("POST", "/api/sign", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.True(t, called, "should call the wrapped handler")
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestInitializeWithStdoutProviders(t *testing.T) {
	hook, oldLog := testhelpers.SetupTestLogging(&log)
	defer func() { log = *oldLog }()

	os.Setenv("TRACER_PROVIDER", PRETTY)
	os.Setenv("METRIC_PROVIDER", STDOUT)
	defer os.Unsetenv("TRACER_PROVIDER")
	defer os.Unsetenv("METRIC_PROVIDER")

	cleaner := Initialize(&signing.Stats{})
	assert.Empty(t, hook.Entries, "configured providers should start without logging")
	assert.NotPanics(t, cleaner.Cleanup, "cleanup should stop the metric pusher")

	cleanup := InitTracer()
	assert.NotNil(t, cleanup)
	os.Setenv("TRACER_PROVIDER", STDOUT)
	cleanup = InitTracer()
	assert.NotPanics(t, cleanup)
	assert.Empty(t, hook.Entries)
}
