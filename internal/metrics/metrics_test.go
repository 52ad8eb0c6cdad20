package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestObserveCronJob(t *testing.T) {
	ObserveCronJob("purge_invitations", time.Now(), errors.New("boom"))

	body := scrape(t)
	assert.Contains(t, body, `charge_tracker_cron_job_runs_total{job_name="purge_invitations",outcome="error"} 1`)
	assert.Contains(t, body, "charge_tracker_cron_job_run_duration_seconds")
}

func TestHandlerServesRegistry(t *testing.T) {
	EventsHandled.WithLabelValues("get_committees", "ok").Inc()

	assert.Contains(t, scrape(t), `charge_tracker_events_handled_total{event="get_committees",outcome="ok"}`)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "error", Outcome(errors.New("x")))
}
