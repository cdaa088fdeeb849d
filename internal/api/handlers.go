package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sells-group/adjuster-intel/internal/intel"
)

type handler struct {
	engine Engine
	pinger Pinger
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			zap.L().Warn("api: health check failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) adjusterIntelligence(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	out, err := h.engine.Adjuster(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "adjuster not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) carrierIntelligence(w http.ResponseWriter, r *http.Request) {
	// chi routes on RawPath when the request carries escapes such as %2F, and
	// then hands back the still-encoded segment.
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(name); err == nil {
			name = decoded
		}
	}

	out, err := h.engine.Carrier(r.Context(), name)
	if err != nil {
		h.fail(w, r, err, "carrier not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) performanceSummary(w http.ResponseWriter, r *http.Request) {
	out, err := h.engine.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// fail maps engine errors to responses. Internal details are logged, not
// returned.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	if errors.Is(err, intel.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	zap.L().Error("api: request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
