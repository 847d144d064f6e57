package httpapi

import (
	"net/http"

	"github.com/statline/gridiron/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// SystemHealth probes every dependency. A down verdict flips the HTTP
// status so load balancers can act on it.
func (h *Handler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SystemHealth")
	defer span.End()

	report := h.healthService.Check(ctx)

	status := http.StatusOK
	if report.Status == usecase.HealthDown {
		status = http.StatusServiceUnavailable
	}

	writeSuccess(ctx, w, status, report)
}
