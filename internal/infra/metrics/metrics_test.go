package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestDomainCountersAreRegistered(t *testing.T) {
	RecordOutreachDispatched("email", "SENT")
	RecordDataSourceConnected("crm")
	RecordIntegrationError("kommo")

	body := scrape(t)
	assert.Contains(t, body, `outreach_dispatched_total{channel="email",status="SENT"}`)
	assert.Contains(t, body, `data_sources_connected_total{type="crm"}`)
	assert.Contains(t, body, `integration_errors_total{service="kommo"}`)
}
