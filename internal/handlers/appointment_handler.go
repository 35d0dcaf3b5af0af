package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-api/internal/appointments"
	"github.com/harentsoaR/clinic-api/internal/models"
)

// GetAppointments lists appointments filtered by search, status, date and
// patientType, newest first.
func (h *Handler) GetAppointments(c *gin.Context) {
	var filter appointments.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}
	c.JSON(http.StatusOK, h.Appointments.List(filter))
}

// CreateAppointment books a slot. ?flow= selects standard, calendar or quick.
func (h *Handler) CreateAppointment(c *gin.Context) {
	flow, err := appointments.ParseFlow(c.Query("flow"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req appointments.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	apt, err := h.Appointments.Book(c.Request.Context(), req, flow)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apt)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	flow, err := appointments.ParseFlow(c.Query("flow"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req appointments.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	apt, err := h.Appointments.Update(c.Request.Context(), c.Param("id"), req, flow)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	var req struct {
		Status models.AppointmentStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.Status = models.AppointmentStatus(strings.TrimSpace(string(req.Status)))
	if !req.Status.Valid() {
		badRequest(c, "Status must be Active, Completed or Cancelled")
		return
	}

	apt, err := h.Appointments.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	if err := h.Appointments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

// GetSlots lists the day's slot grid with availability.
func (h *Handler) GetSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = h.Clock.Today()
	}
	slots, err := h.Appointments.Slots(date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}
