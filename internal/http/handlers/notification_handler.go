// Notification HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Abroon25/ideax/internal/domain"
)

// MarkReadRequest settles notifications; an empty list settles all
// unread.
type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

// NotificationsResponse wraps a notification page with its counters.
type NotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
	Pagination    Pagination            `json:"pagination"`
}

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List own notifications
// @Tags        Notifications
// @Produce     json
// @Param       page  query int false "Page number" default(1)
// @Param       limit query int false "Items per page" default(20)
// @Success     200 {object} handlers.NotificationsResponse
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	page, limit := clampPagination(c)

	items, total, unread, err := h.Notifications.List(c.Request.Context(), userID(c), page, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, NotificationsResponse{
		Notifications: items,
		UnreadCount:   unread,
		Pagination:    paginate(page, limit, total),
	})
}

// MarkNotificationsRead godoc
// @ID          markNotificationsRead
// @Summary     Mark notifications read
// @Tags        Notifications
// @Accept      json
// @Success     204 {string} string "No Content"
// @Router      /notifications/read [post]
func (h *Handlers) MarkNotificationsRead(c *gin.Context) {
	var req MarkReadRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.Notifications.MarkRead(c.Request.Context(), userID(c), req.IDs); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
