package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-api/internal/admins"
	"github.com/harentsoaR/clinic-api/internal/middleware"
)

func (h *Handler) GetAdmins(c *gin.Context) {
	c.JSON(http.StatusOK, h.Admins.List(c.Query("search")))
}

func (h *Handler) CreateAdmin(c *gin.Context) {
	var req admins.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	admin, err := h.Admins.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

func (h *Handler) UpdateAdmin(c *gin.Context) {
	var req admins.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	admin, err := h.Admins.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *Handler) DeleteAdmin(c *gin.Context) {
	if err := h.Admins.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.Presence.Offline(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}

// GetCurrentUser returns the profile of the authenticated admin.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	admin, err := h.Admins.Get(c.GetString(middleware.UserIDKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}
