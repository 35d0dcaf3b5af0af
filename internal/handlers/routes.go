package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harentsoaR/clinic-api/internal/middleware"
	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/utils"
)

type RouterConfig struct {
	CORSOrigins []string
	// Gatherer backs GET /metrics. Nil means the default registry.
	Gatherer prometheus.Gatherer
}

func NewRouter(h *Handler, tokens *utils.TokenManager, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(h.Logger))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", h.Login)
	}

	superOnly := middleware.RequireRole(models.RoleSuperAdmin)
	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware(tokens, h.Admins))
	{
		apiRoutes.GET("/appointments", h.GetAppointments)
		apiRoutes.POST("/appointments", h.CreateAppointment)
		apiRoutes.PUT("/appointments/:id", h.UpdateAppointment)
		apiRoutes.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
		apiRoutes.DELETE("/appointments/:id", h.DeleteAppointment)
		apiRoutes.GET("/slots", h.GetSlots)

		apiRoutes.GET("/patients", h.GetPatients)
		apiRoutes.POST("/patients", h.CreatePatient)
		apiRoutes.PUT("/patients/:id", h.UpdatePatient)
		apiRoutes.DELETE("/patients/:id", superOnly, h.DeletePatient)

		apiRoutes.GET("/admins", h.GetAdmins)
		apiRoutes.POST("/admins", superOnly, h.CreateAdmin)
		apiRoutes.PUT("/admins/:id", superOnly, h.UpdateAdmin)
		apiRoutes.DELETE("/admins/:id", superOnly, h.DeleteAdmin)
		apiRoutes.GET("/me", h.GetCurrentUser)

		apiRoutes.GET("/dashboard", h.GetDashboard)

		apiRoutes.GET("/presence", h.GetPresence)
		apiRoutes.POST("/presence/heartbeat", h.Heartbeat)
		apiRoutes.DELETE("/presence", h.GoOffline)
	}
	return r
}
