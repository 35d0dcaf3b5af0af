package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-api/internal/middleware"
)

func (h *Handler) Heartbeat(c *gin.Context) {
	uid := c.GetString(middleware.UserIDKey)
	if err := h.Presence.Heartbeat(uid, c.GetString(middleware.UserRoleKey)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GoOffline(c *gin.Context) {
	h.Presence.Offline(c.GetString(middleware.UserIDKey))
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetPresence(c *gin.Context) {
	c.JSON(http.StatusOK, h.Presence.Statuses())
}
