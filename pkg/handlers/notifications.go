package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/auth"
	"github.com/vcisolabs/vciso-engine/pkg/models"
	"github.com/vcisolabs/vciso-engine/pkg/services"
)

// NotificationListResponse for GET /api/notifications
type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int                    `json:"total"`
}

// NotificationHandler handles notification HTTP requests.
type NotificationHandler struct {
	notifications services.NotificationService
	logger        *zap.Logger
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notifications services.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// RegisterRoutes registers the notification handler's routes on the given mux.
func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/notifications", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/notifications/{id}/read", authMiddleware.RequireAuth(h.MarkRead))
}

// List handles GET /api/notifications requests for the authenticated user.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	notifications, err := h.notifications.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "storage_failed", "Failed to list notifications")
		return
	}

	resp := NotificationListResponse{
		Notifications: notifications,
		Total:         len(notifications),
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode notification list", zap.Error(err))
	}
}

// MarkRead handles POST /api/notifications/{id}/read requests.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireUserIDFromContext(r.Context()); err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid notification ID")
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id); err != nil {
		h.logger.Error("Failed to mark notification read", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "storage_failed", "Failed to update notification")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
