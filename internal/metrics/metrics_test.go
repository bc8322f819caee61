package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ScoresRecorded.WithLabelValues("clicker").Inc()
	m.ScoresRecorded.WithLabelValues("clicker").Inc()
	m.SubmissionFailures.WithLabelValues(ReasonUnauthenticated).Inc()
	m.LeaderboardQueries.WithLabelValues(ViewTop).Inc()
	m.GameSessionsActive.Set(3)

	assert.InDelta(t, 2, testutil.ToFloat64(m.ScoresRecorded.WithLabelValues("clicker")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SubmissionFailures.WithLabelValues(ReasonUnauthenticated)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LeaderboardQueries.WithLabelValues(ViewTop)), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.GameSessionsActive), 0)
}

func TestObserveAggregation(t *testing.T) {
	m := New()
	m.ObserveAggregation(time.Now().Add(-time.Millisecond))

	assert.Equal(t, 1, testutil.CollectAndCount(m.AggregationSeconds))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ScoresRecorded.WithLabelValues("survival").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `placar_scores_recorded_total{game="survival"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.GameSessionsActive.Inc()

	assert.InDelta(t, 0, testutil.ToFloat64(b.GameSessionsActive), 0)
}
