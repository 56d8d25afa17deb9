package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/hapkiduki/catalog-go/internal/application/dto"
)

// Pinger is implemented by dependencies checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	version   string
	startTime time.Time
	checks    map[string]Pinger
}

// NewHealthHandler creates a health handler.
//
// Parameters:
//   - version: application version reported by the probes
//   - checks: named dependencies verified by the readiness probe
func NewHealthHandler(version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{version: version, startTime: time.Now(), checks: checks}
}

// Live reports that the process is up.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, dto.HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).String(),
	})
}

// Ready pings every dependency and returns 503 if any of them fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := dto.HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).String(),
		Checks:  make(map[string]dto.HealthCheckResult, len(h.checks)),
	}

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		start := time.Now()
		err := check.Ping(ctx)
		cancel()

		result := dto.HealthCheckResult{Status: "healthy", ResponseTime: time.Since(start).Milliseconds()}
		if err != nil {
			result.Status = "unhealthy"
			result.Message = err.Error()
			resp.Status = "unhealthy"
		}
		resp.Checks[name] = result
	}

	if resp.Status != "healthy" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, dto.NewErrorResponse[any](CodeNotFound, "The requested resource was not found"))
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusMethodNotAllowed)
	render.JSON(w, r, dto.NewErrorResponse[any]("METHOD_NOT_ALLOWED", "The requested method is not allowed for this resource"))
}
