package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crewops/ops-portal-go/internal/domain/notification"
	"github.com/crewops/ops-portal-go/internal/handler/http/response"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	notificationRepo notification.Repository
}

func NewNotificationHandler(notificationRepo notification.Repository) NotificationHandler {
	return &NotificationHandlerImpl{notificationRepo: notificationRepo}
}

// List implements NotificationHandler.
func (h *NotificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromToken(w, r)
	if !ok {
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}
	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	notifications, err := h.notificationRepo.GetByUserID(r.Context(), userID, limit, unreadOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notifications)
}

// UnreadCount implements NotificationHandler.
func (h *NotificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromToken(w, r)
	if !ok {
		return
	}

	count, err := h.notificationRepo.GetUnreadCount(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int{"unread_count": count})
}

// MarkRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromToken(w, r)
	if !ok {
		return
	}

	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("MarkRead decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if len(req.IDs) == 0 {
		response.BadRequest(w, "At least one notification id is required", nil)
		return
	}

	if err := h.notificationRepo.MarkAsRead(r.Context(), req.IDs, userID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notifications marked as read", nil)
}

// MarkAllRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromToken(w, r)
	if !ok {
		return
	}

	if err := h.notificationRepo.MarkAllAsRead(r.Context(), userID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All notifications marked as read", nil)
}
