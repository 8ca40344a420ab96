package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/taskwall/taskwall/modules/kanban/services"
	"github.com/taskwall/taskwall/pkg/application"
	"github.com/taskwall/taskwall/pkg/httpapi"
)

// UserIDHeader carries the acting user until the auth gateway injects a full
// principal.
const UserIDHeader = "X-User-ID"

type NotificationsController struct {
	notifications *services.NotificationService
}

func NewNotificationsController(notifications *services.NotificationService) application.Controller {
	return &NotificationsController{notifications: notifications}
}

func (c *NotificationsController) Key() string { return "/notifications" }

func (c *NotificationsController) Register(r *mux.Router) {
	router := r.PathPrefix("/notifications").Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/read", c.MarkRead).Methods(http.MethodPost)
}

func (c *NotificationsController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := c.notifications.GetByUser(r.Context(), userID, unreadOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		out[i] = toNotificationResponse(&notifications[i])
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *NotificationsController) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req MarkReadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "MALFORMED_ID", "notification id is not a valid uuid", nil)
			return
		}
		ids = append(ids, id)
	}
	if err := c.notifications.MarkRead(r.Context(), userID, ids); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}

func requestUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(r.Header.Get(UserIDHeader))
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "USER_REQUIRED", "missing or malformed "+UserIDHeader+" header", nil)
		return uuid.Nil, false
	}
	return userID, true
}
