package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthChecker is any dependency that can be probed for liveness.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function, such as (*sql.DB).PingContext, to HealthChecker.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// HealthHandler godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) HealthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := HealthResponse{Status: "ok", Dependencies: make(map[string]string, len(checks))}
		for _, name := range names {
			if err := checks[name].Ping(ctx); err != nil {
				s.logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				resp.Status = "degraded"
				resp.Dependencies[name] = "unreachable"
				continue
			}
			resp.Dependencies[name] = "ok"
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		s.respond(w, r, status, resp)
	}
}
