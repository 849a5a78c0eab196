package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"vigilant-console/core/gateway"
	"vigilant-console/core/utils"
	"vigilant-console/core/workflow"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeTaxonomyError maps the workflow/gateway error taxonomy onto HTTP.
// Business violations keep their upstream message; everything else gets a
// stable code the presentation layer can branch on.
func writeTaxonomyError(w http.ResponseWriter, logger *utils.Logger, err error) {
	var (
		authErr *gateway.AuthError
		brv     *gateway.BusinessRuleViolation
		cfgErr  *gateway.ConfigurationError
		netErr  *gateway.NetworkError
	)
	switch {
	case errors.Is(err, workflow.ErrMissingContext):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "missing_context", "message": err.Error()})
	case errors.Is(err, workflow.ErrNoSegment):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "missing_segment", "message": err.Error()})
	case errors.Is(err, workflow.ErrOperationInFlight):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "operation_in_flight", "message": err.Error()})
	case errors.Is(err, workflow.ErrSelectionChanged):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "selection_changed", "message": err.Error()})
	case errors.Is(err, gateway.ErrSessionExpired):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session_expired"})
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "auth_failed", "message": authErr.Message})
	case errors.As(err, &brv):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "business_rule", "message": brv.Message})
	case errors.As(err, &cfgErr):
		if logger != nil {
			logger.Errorf("configuration: %v", cfgErr)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "configuration", "message": cfgErr.Message})
	case errors.As(err, &netErr):
		if logger != nil {
			logger.Errorf("gateway: %v", netErr)
		}
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "network", "retryable": netErr.Retryable})
	default:
		if logger != nil {
			logger.Errorf("internal: %v", err)
		}
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return 0
	}
	return v
}
