package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-api/internal/dashboard"
)

func (h *Handler) GetDashboard(c *gin.Context) {
	summary := dashboard.Summarize(h.Patients.All(), h.Appointments.All(), h.Clock.Today())
	c.JSON(http.StatusOK, summary)
}
