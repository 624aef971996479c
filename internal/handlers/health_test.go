package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ymango/ymango/internal/handlers"
	"github.com/ymango/ymango/internal/handlers/testutil"
	"github.com/ymango/ymango/internal/monitoring"
)

type healthPayload struct {
	Success bool                     `json:"success"`
	Status  string                   `json:"status"`
	Checks  []monitoring.ProbeResult `json:"checks"`
}

func TestHealthEndpoints(t *testing.T) {
	env := testutil.NewEnv(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		w := env.Request(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)

		var payload healthPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		require.True(t, payload.Success, path)
		require.Equal(t, "up", payload.Status, path)
	}

	w := env.Request(http.MethodGet, "/health/ready", nil)
	var ready healthPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	require.Len(t, ready.Checks, 1)
	require.Equal(t, "database", ready.Checks[0].Component)
}

func TestHealthReadinessStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	probe := func(status monitoring.ProbeStatus) monitoring.Check {
		return monitoring.NewCheck("redis", func(context.Context) monitoring.ProbeResult {
			return monitoring.ProbeResult{Status: status}
		})
	}

	cases := map[monitoring.ProbeStatus]int{
		monitoring.StatusUp:       http.StatusOK,
		monitoring.StatusDegraded: http.StatusOK,
		monitoring.StatusDown:     http.StatusServiceUnavailable,
	}
	for status, code := range cases {
		h := handlers.NewHealthHandler(monitoring.NewHealthManager(probe(status)))
		r := gin.New()
		r.GET("/health/ready", h.Ready)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, code, w.Code, status)
	}
}
