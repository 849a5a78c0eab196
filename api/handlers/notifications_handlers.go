package handlers

import (
	"net/http"

	"vigilant-console/core/notifications"
	"vigilant-console/core/utils"
)

type NotificationsHandler struct {
	svc    *notifications.Service
	poller *notifications.Poller
	logger *utils.Logger
}

func NewNotificationsHandler(svc *notifications.Service, poller *notifications.Poller, logger *utils.Logger) *NotificationsHandler {
	return &NotificationsHandler{svc: svc, poller: poller, logger: logger}
}

func (h *NotificationsHandler) All(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.All(r.Context(), sessionFrom(r))
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *NotificationsHandler) Unread(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Unread(r.Context(), sessionFrom(r))
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *NotificationsHandler) Read(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Read(r.Context(), sessionFrom(r))
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": items})
}

// UnreadCount serves the poller's cached figure; it never blocks on the
// platform.
func (h *NotificationsHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	sr := sessionFrom(r)
	writeJSON(w, http.StatusOK, map[string]int{"unread": h.poller.UnreadCount(sr.ID)})
}

func (h *NotificationsHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	item, err := h.svc.Details(r.Context(), sessionFrom(r), id)
	if err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := h.svc.MarkRead(r.Context(), sessionFrom(r), id); err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkAllRead(r.Context(), sessionFrom(r)); err != nil {
		writeTaxonomyError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
