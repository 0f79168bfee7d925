package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestLiveness_AlwaysUp(t *testing.T) {
	h := NewHandler()
	// A wedged dependency must not affect liveness.
	h.Register("postgres", func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rr := httptest.NewRecorder()
	h.LivenessHandler()(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeResponse(t, rr)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Empty(t, resp.Checks)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestReadiness_NoChecksRegistered(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rr := httptest.NewRecorder()
	h.ReadinessHandler()(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, StatusUp, decodeResponse(t, rr).Status)
}

func TestReadiness_AllDependenciesUp(t *testing.T) {
	h := NewHandler()
	h.Register("postgres", func(ctx context.Context) error { return nil })
	h.Register("redis", func(ctx context.Context) error { return nil })
	h.Register("kafka", func(ctx context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rr := httptest.NewRecorder()
	h.ReadinessHandler()(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeResponse(t, rr)
	assert.Equal(t, StatusUp, resp.Status)
	require.Len(t, resp.Checks, 3)
	for name, check := range resp.Checks {
		assert.Equal(t, StatusUp, check.Status, "check %s", name)
		assert.NotEmpty(t, check.Latency, "check %s", name)
		assert.Empty(t, check.Error, "check %s", name)
	}
}

func TestReadiness_OneDependencyDown(t *testing.T) {
	h := NewHandler()
	h.Register("postgres", func(ctx context.Context) error { return nil })
	h.Register("redis", func(ctx context.Context) error {
		return errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rr := httptest.NewRecorder()
	h.ReadinessHandler()(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	resp := decodeResponse(t, rr)
	assert.Equal(t, StatusDown, resp.Status)
	assert.Equal(t, StatusUp, resp.Checks["postgres"].Status)
	assert.Equal(t, StatusDown, resp.Checks["redis"].Status)
	assert.Contains(t, resp.Checks["redis"].Error, "connection refused")
}

func TestReadiness_ChecksReceiveDeadline(t *testing.T) {
	h := NewHandler()
	var gotDeadline bool
	h.Register("postgres", func(ctx context.Context) error {
		_, gotDeadline = ctx.Deadline()
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rr := httptest.NewRecorder()
	h.ReadinessHandler()(rr, req)

	assert.True(t, gotDeadline, "checks run under a deadline")
}

func TestRegister_ReplacesExistingCheck(t *testing.T) {
	h := NewHandler()
	h.Register("postgres", func(ctx context.Context) error {
		return errors.New("stale checker")
	})
	h.Register("postgres", func(ctx context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rr := httptest.NewRecorder()
	h.ReadinessHandler()(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeResponse(t, rr)
	require.Len(t, resp.Checks, 1)
	assert.Equal(t, StatusUp, resp.Checks["postgres"].Status)
}

func TestHealthEndpoints_ContentType(t *testing.T) {
	h := NewHandler()

	for _, handler := range []http.HandlerFunc{h.LivenessHandler(), h.ReadinessHandler()} {
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	}
}
