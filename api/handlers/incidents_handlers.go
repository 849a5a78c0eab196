package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"vigilant-console/core/auth"
	"vigilant-console/core/store"
	"vigilant-console/core/utils"
	"vigilant-console/core/workflow"
)

type IncidentsHandler struct {
	coordinator *workflow.Coordinator
	logger      *utils.Logger
}

func NewIncidentsHandler(coordinator *workflow.Coordinator, logger *utils.Logger) *IncidentsHandler {
	return &IncidentsHandler{coordinator: coordinator, logger: logger}
}

func sessionFrom(r *http.Request) *store.SessionRecord {
	return r.Context().Value(auth.SessionContextKey).(*store.SessionRecord)
}

func (h *IncidentsHandler) Assigned(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.coordinator.AssignedIncidents(r.Context(), sessionFrom(r))
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": incidents})
}

func (h *IncidentsHandler) List(w http.ResponseWriter, r *http.Request) {
	incidents, meta, err := h.coordinator.ListIncidents(r.Context(), sessionFrom(r),
		queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": incidents, "meta": meta})
}

// Load fetches one incident and commits it as the session's working context.
// The mutations below refuse to run until this has happened.
func (h *IncidentsHandler) Load(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid incident id")
		return
	}
	view, err := h.coordinator.LoadIncident(r.Context(), sessionFrom(r), id)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type respondRequest struct {
	Action string `json:"action"`
}

func (h *IncidentsHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	var accept bool
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "accept":
		accept = true
	case "decline":
		accept = false
	default:
		writeError(w, http.StatusBadRequest, "action must be accept or decline")
		return
	}
	result, err := h.coordinator.Respond(r.Context(), sessionFrom(r), accept)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	status := http.StatusOK
	if result.Violation != "" {
		// Someone else responded first. The fresh state rides along so the
		// caller can re-render without another round trip.
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (h *IncidentsHandler) Targets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.coordinator.ResolveAssignmentTargets(r.Context(), sessionFrom(r))
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": targets})
}

type segmentRequest struct {
	EntityID int64 `json:"entity_id"`
}

func (h *IncidentsHandler) Segment(w http.ResponseWriter, r *http.Request) {
	var req segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EntityID <= 0 {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	state, err := h.coordinator.ChooseSegment(r.Context(), sessionFrom(r), req.EntityID)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *IncidentsHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var input workflow.AssignInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.EntityID <= 0 {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	view, err := h.coordinator.Assign(r.Context(), sessionFrom(r), input)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type commentRequest struct {
	Comment string `json:"comment"`
}

func (h *IncidentsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Comment) == "" {
		writeError(w, http.StatusBadRequest, "comment required")
		return
	}
	comment, err := h.coordinator.AddComment(r.Context(), sessionFrom(r), req.Comment)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *IncidentsHandler) Comments(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid incident id")
		return
	}
	comments, err := h.coordinator.Comments(r.Context(), sessionFrom(r), id)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": comments})
}

func (h *IncidentsHandler) ActivityLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid incident id")
		return
	}
	logs, meta, err := h.coordinator.ActivityLogs(r.Context(), sessionFrom(r), id,
		queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": logs, "meta": meta})
}

func (h *IncidentsHandler) Banks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.coordinator.Banks(r.Context(), sessionFrom(r))
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": banks})
}
