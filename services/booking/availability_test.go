package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"andino/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGateAdmit(t *testing.T) {
	client := &stubAvailabilityClient{result: &models.AvailabilityResult{Available: true}}
	gate := NewAvailabilityGate(client, zap.NewNop())

	dr := rangeOf("2026-06-01", "2026-06-03")
	decision := gate.Check(context.Background(), "svc-1", dr, models.Party{Adults: 2})

	assert.Equal(t, models.DecisionAdmit, decision.Outcome)
	assert.True(t, decision.Admitted())
	assert.Equal(t, dr, decision.CheckedFor)
	assert.False(t, decision.CheckedAt.IsZero())
}

func TestGateBlockedPassesReasonThrough(t *testing.T) {
	alt := []models.DateRange{rangeOf("2026-06-10", "2026-06-12")}
	client := &stubAvailabilityClient{result: &models.AvailabilityResult{
		Available:        false,
		Reason:           "sold out",
		AlternativeDates: alt,
	}}
	gate := NewAvailabilityGate(client, zap.NewNop())

	decision := gate.Check(context.Background(), "svc-1", rangeOf("2026-06-01", "2026-06-03"), models.Party{Adults: 2})

	assert.Equal(t, models.DecisionBlocked, decision.Outcome)
	assert.Equal(t, "sold out", decision.Reason)
	assert.Equal(t, alt, decision.AlternativeDates)
}

func TestGateFailureNeverAdmits(t *testing.T) {
	client := &stubAvailabilityClient{err: errors.New("connection refused")}
	gate := NewAvailabilityGate(client, zap.NewNop())

	decision := gate.Check(context.Background(), "svc-1", rangeOf("2026-06-01", "2026-06-03"), models.Party{Adults: 2})

	assert.Equal(t, models.DecisionUnknown, decision.Outcome)
	assert.False(t, decision.Admitted())
	assert.NotEmpty(t, decision.Reason)
}

func TestSameRange(t *testing.T) {
	a := rangeOf("2026-06-01", "2026-06-03")
	assert.True(t, SameRange(a, rangeOf("2026-06-01", "2026-06-03")))
	assert.False(t, SameRange(a, rangeOf("2026-06-01", "2026-06-04")))
	assert.False(t, SameRange(a, rangeOf("2026-06-02", "2026-06-03")))
	assert.False(t, SameRange(a, rangeOf("2026-06-01", "")))
	assert.True(t, SameRange(rangeOf("2026-06-01", ""), rangeOf("2026-06-01", "")))
}

func TestHTTPAvailabilityClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/check", r.URL.Path)

		var req struct {
			ServiceRef string           `json:"serviceRef"`
			Dates      models.DateRange `json:"dates"`
			Party      models.Party     `json:"party"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "svc-1", req.ServiceRef)
		assert.Equal(t, 2, req.Party.Adults)

		json.NewEncoder(w).Encode(models.AvailabilityResult{Available: true})
	}))
	defer srv.Close()

	client := &HTTPAvailabilityClient{BaseURL: srv.URL, HTTP: srv.Client()}
	result, err := client.CheckAvailability(context.Background(), "svc-1", rangeOf("2026-06-01", "2026-06-03"), models.Party{Adults: 2})
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestHTTPAvailabilityClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := &HTTPAvailabilityClient{BaseURL: srv.URL, HTTP: srv.Client()}
	_, err := client.CheckAvailability(context.Background(), "svc-1", rangeOf("2026-06-01", "2026-06-03"), models.Party{Adults: 2})
	assert.Error(t, err)
}
