package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/clinic-api/internal/admins"
	"github.com/harentsoaR/clinic-api/internal/appointments"
	"github.com/harentsoaR/clinic-api/internal/patients"
	"github.com/harentsoaR/clinic-api/internal/presence"
	"github.com/harentsoaR/clinic-api/internal/schedule"
)

// Handler carries the services every endpoint needs.
type Handler struct {
	Appointments *appointments.Service
	Patients     *patients.Service
	Admins       *admins.Service
	Presence     *presence.Tracker
	Clock        *schedule.Clock
	Logger       zerolog.Logger
}

func NewHandler(
	appts *appointments.Service,
	pats *patients.Service,
	adms *admins.Service,
	tracker *presence.Tracker,
	clock *schedule.Clock,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		Appointments: appts,
		Patients:     pats,
		Admins:       adms,
		Presence:     tracker,
		Clock:        clock,
		Logger:       logger,
	}
}

// respondError maps a service error to a status code and {"error": ...} body.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *appointments.ValidationError
	switch {
	case errors.Is(err, appointments.ErrDuplicateSlot),
		errors.Is(err, patients.ErrPatientExists),
		errors.Is(err, admins.ErrEmailTaken),
		errors.Is(err, admins.ErrLastSuperAdmin):
		c.JSON(http.StatusConflict, gin.H{"error": rootMessage(err)})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Kind.Error(), "fields": verr.Fields})
	case errors.Is(err, patients.ErrMissingRequiredField),
		errors.Is(err, admins.ErrInvalidName),
		errors.Is(err, admins.ErrInvalidEmail),
		errors.Is(err, admins.ErrInvalidRole),
		errors.Is(err, admins.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, appointments.ErrNotFound),
		errors.Is(err, patients.ErrNotFound),
		errors.Is(err, admins.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, admins.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, presence.ErrRoleNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, appointments.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": appointments.ErrPersistence.Error()})
	case errors.Is(err, patients.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": patients.ErrPersistence.Error()})
	case errors.Is(err, admins.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": admins.ErrPersistence.Error()})
	default:
		h.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
	_ = c.Error(err)
}

func rootMessage(err error) string {
	var verr *appointments.ValidationError
	if errors.As(err, &verr) {
		return verr.Kind.Error()
	}
	return err.Error()
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
