package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vigilant-console/config"
	"vigilant-console/core/auth"
	"vigilant-console/core/rbac"
	"vigilant-console/core/store"
	"vigilant-console/core/utils"
)

type AuthHandler struct {
	cfg            *config.AppConfig
	sessions       store.SessionStore
	sessionManager *auth.SessionManager
	logger         *utils.Logger
}

func NewAuthHandler(cfg *config.AppConfig, sessions store.SessionStore, sm *auth.SessionManager, logger *utils.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, sessions: sessions, sessionManager: sm, logger: logger}
}

// Login runs the credential half of the flow. A 200 only means the OTP went
// out; no session exists until Verify succeeds.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cred auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	cred.Email = strings.ToLower(strings.TrimSpace(cred.Email))
	if err := h.sessionManager.BeginLogin(r.Context(), cred.Email, cred.Password); err != nil {
		if h.logger != nil {
			h.logger.Printf("AUTH login failed for %s: %v", cred.Email, err)
		}
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "otp_pending"})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var sub auth.OTPSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	sess, err := h.sessionManager.CompleteLogin(r.Context(), sub.Email, sub.OTP)
	if err != nil {
		if errors.Is(err, auth.ErrNoPendingLogin) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "auth_failed", "message": err.Error()})
			return
		}
		if h.logger != nil {
			h.logger.Printf("AUTH verify failed for %s: %v", sub.Email, err)
		}
		writeTaxonomyError(w, h.logger, err)
		return
	}
	role := ""
	if len(sess.Roles) > 0 {
		role = sess.Roles[0]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session":  sess,
		"sections": rbac.SectionsFor(role),
	})
}

// Logout is idempotent: an absent, expired or already-deleted session logs
// out with 200 all the same.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessID := bearerSessionID(r)
	if sessID != "" {
		if err := h.sessionManager.Logout(r.Context(), sessID); err != nil && h.logger != nil {
			h.logger.Errorf("logout %s: %v", sessID, err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	sr := r.Context().Value(auth.SessionContextKey).(*store.SessionRecord)
	if err := h.sessionManager.Touch(r.Context(), sr.ID); err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "last_seen_at": utils.NowUTC()})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sr := r.Context().Value(auth.SessionContextKey).(*store.SessionRecord)
	role := ""
	if len(sr.Roles) > 0 {
		role = sr.Roles[0]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":         sr.UserID,
			"email":      sr.Email,
			"first_name": sr.FirstName,
			"last_name":  sr.LastName,
			"roles":      sr.Roles,
			"bank_id":    sr.BankID,
		},
		"sections": rbac.SectionsFor(role),
	})
}

func bearerSessionID(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
