package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"vigilant-console/core/auth"
	"vigilant-console/core/gateway"
	"vigilant-console/core/utils"
)

// SetupHandler covers platform administration: reference data, platform
// roles and admin-member onboarding. Routes mount behind setup.manage.
type SetupHandler struct {
	gw       *gateway.Client
	sessions *auth.SessionManager
	logger   *utils.Logger
}

func NewSetupHandler(gw *gateway.Client, sessions *auth.SessionManager, logger *utils.Logger) *SetupHandler {
	return &SetupHandler{gw: gw, sessions: sessions, logger: logger}
}

func (h *SetupHandler) token(r *http.Request) (string, error) {
	return h.sessions.Token(sessionFrom(r))
}

func (h *SetupHandler) Roles(w http.ResponseWriter, r *http.Request) {
	token, err := h.token(r)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	roles, err := h.gw.PlatformRoles(r.Context(), token)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": roles})
}

func (h *SetupHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req gateway.RegisterAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, err := h.token(r)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	if err := h.gw.RegisterAdmin(r.Context(), token, req); err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (h *SetupHandler) MemberActions(w http.ResponseWriter, r *http.Request) {
	state := strings.ToLower(strings.TrimSpace(urlParam(r, "state")))
	switch state {
	case "pending", "declined", "approved":
	default:
		writeError(w, http.StatusBadRequest, "state must be pending, declined or approved")
		return
	}
	token, err := h.token(r)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	actions, err := h.gw.MemberActions(r.Context(), token, state)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": actions})
}

func (h *SetupHandler) ApproveAction(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, h.gw.ApproveMemberAction)
}

func (h *SetupHandler) DeclineAction(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, h.gw.DeclineMemberAction)
}

func (h *SetupHandler) memberAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, token string, id int64) error) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid action id")
		return
	}
	token, err := h.token(r)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	if err := fn(r.Context(), token, id); err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
