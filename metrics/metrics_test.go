package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaultIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		RegisterDefault()
		RegisterDefault()
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	Assignments.WithLabelValues("assigned").Inc()
	NotificationQueueDepth.Set(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dispatch_assignments_total{outcome="assigned"}`)
	assert.Contains(t, rec.Body.String(), "notification_queue_depth 3")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
