// internal/gateway/respond.go
//
// JSON response helpers and backend error mapping.

package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/craftflow/storefront/internal/api"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("response encode failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeBackendError maps a backend call failure onto a shopper-facing
// status.  Sentinels keep their natural codes, structured backend errors
// pass their status through, and anything else (network, decode) is a
// 502 so the client can distinguish gateway trouble from its own input.
func writeBackendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	case errors.Is(err, api.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.Status, apiErr.Message)
		return
	}

	zap.L().Warn("backend call failed", zap.Error(err))
	writeError(w, http.StatusBadGateway, "Upstream unavailable")
}
