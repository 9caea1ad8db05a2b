// internal/metrics/metrics_test.go
package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestObservationsAreGathered(t *testing.T) {
	Register()
	ObserveProviderCall("github", "list_commits", nil, 20*time.Millisecond)
	ObserveProviderCall("github", "list_commits", errors.New("boom"), 5*time.Millisecond)
	ObserveCommits("skipped", 2)
	ObserveCommits("failed", 0)
	ObserveSync("commits", time.Second)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]int)
	for _, mf := range families {
		names[mf.GetName()] = len(mf.GetMetric())
	}
	assert.Equal(t, 2, names["commitlens_provider_requests_total"], "one series per outcome")
	assert.Contains(t, names, "commitlens_provider_request_duration_seconds")
	assert.Equal(t, 1, names["commitlens_sync_commits_processed_total"], "zero counts are not recorded")
	assert.Contains(t, names, "commitlens_sync_duration_seconds")
}
