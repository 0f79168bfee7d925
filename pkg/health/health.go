// Package health serves the liveness and readiness endpoints. Readiness
// fans out to the storefront's dependencies (PostgreSQL, Redis, Kafka) and
// reports each one separately so a failing probe names the culprit.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// checkTimeout bounds the whole readiness pass, not each check.
const checkTimeout = 5 * time.Second

// Checker probes one dependency.
type Checker func(ctx context.Context) error

// Status is the reported state of the service or one of its dependencies.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Response is the JSON body of both health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult reports one dependency probe.
type CheckResult struct {
	Status  Status `json:"status"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

type namedChecker struct {
	name  string
	check Checker
}

// Handler serves the health endpoints. Checks run in registration order.
type Handler struct {
	mu       sync.RWMutex
	checkers []namedChecker
}

// NewHandler creates a health handler with no checks registered.
func NewHandler() *Handler {
	return &Handler{}
}

// Register adds a named dependency check. Registering the same name again
// replaces the previous checker.
func (h *Handler) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, nc := range h.checkers {
		if nc.name == name {
			h.checkers[i].check = checker
			return
		}
	}
	h.checkers = append(h.checkers, namedChecker{name: name, check: checker})
}

// LivenessHandler reports that the process is up. It never touches
// dependencies, so a wedged database cannot get the pod restarted.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Response{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler probes every registered dependency and returns 503 if any
// of them fails.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		h.mu.RLock()
		checkers := make([]namedChecker, len(h.checkers))
		copy(checkers, h.checkers)
		h.mu.RUnlock()

		checks := make(map[string]CheckResult, len(checkers))
		overall := StatusUp

		for _, nc := range checkers {
			start := time.Now()
			err := nc.check(ctx)
			result := CheckResult{
				Status:  StatusUp,
				Latency: time.Since(start).Round(time.Microsecond).String(),
			}
			if err != nil {
				result.Status = StatusDown
				result.Error = err.Error()
				overall = StatusDown
			}
			checks[nc.name] = result
		}

		status := http.StatusOK
		if overall == StatusDown {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, Response{
			Status:    overall,
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
