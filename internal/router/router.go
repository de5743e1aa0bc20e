package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	ginbinding "github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicasys/clinica-api/internal/config"
	"github.com/clinicasys/clinica-api/internal/handler"
	"github.com/clinicasys/clinica-api/internal/middleware"
	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/service/rbac"
	"github.com/clinicasys/clinica-api/pkg/auth"
	"github.com/clinicasys/clinica-api/pkg/logger"
	customvalidator "github.com/clinicasys/clinica-api/pkg/validator"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Patient     *handler.PatientHandler
	Appointment *handler.AppointmentHandler
	Medical     *handler.MedicalRecordHandler
	Payment     *handler.PaymentHandler
	Report      *handler.ReportHandler
	Clinic      *handler.ClinicHandler
	Document    *handler.DocumentHandler
	Health      *handler.HealthHandler
}

// New assembles the gin engine: global middleware, the public auth and health
// endpoints, and the capability-gated API groups.
func New(cfg *config.Config, log *logger.Logger, jwtSvc auth.JWTService, gate *rbac.Service, h Handlers) *gin.Engine {
	if v, ok := ginbinding.Validator.Engine().(*validator.Validate); ok {
		_ = customvalidator.Register(v)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.ErrorHandler(log))
	r.Use(middleware.CORS())
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	v1.POST("/auth/login", h.Auth.Login)
	v1.POST("/auth/refresh", h.Auth.Refresh)

	authed := v1.Group("")
	authed.Use(middleware.Authenticate(jwtSvc))

	authed.GET("/auth/me", h.Auth.Me)

	// Any authenticated principal.
	dashboard := authed.Group("")
	dashboard.Use(middleware.RequireCapability(gate, rbac.CapDashboard))
	dashboard.GET("/dashboard", h.Report.Dashboard)
	dashboard.GET("/specialties", h.Clinic.ListSpecialties)

	patients := authed.Group("/patients")
	patients.Use(middleware.RequireCapability(gate, rbac.CapPatients))
	patients.POST("", h.Patient.Create)
	patients.GET("", h.Patient.Search)
	patients.GET("/:id", h.Patient.Get)
	patients.PUT("/:id", h.Patient.Update)
	patients.DELETE("/:id", h.Patient.Deactivate)

	appointments := authed.Group("")
	appointments.Use(middleware.RequireCapability(gate, rbac.CapAppointments))
	appointments.POST("/appointments", h.Appointment.Create)
	appointments.GET("/appointments", h.Appointment.List)
	appointments.GET("/appointments/:id", h.Appointment.Get)
	appointments.POST("/appointments/:id/attend", h.Appointment.MarkAttended)
	appointments.POST("/appointments/:id/cancel", h.Appointment.Cancel)
	appointments.GET("/doctors", h.User.ListDoctors)
	appointments.GET("/doctors/:doctor_id/availability", h.Appointment.MonthAvailability)
	appointments.GET("/doctors/:doctor_id/slots", h.Appointment.DaySlots)
	appointments.GET("/exports/appointments", h.Document.AppointmentsExport)

	medical := authed.Group("/medical-records")
	medical.Use(middleware.RequireCapability(gate, rbac.CapMedicalRecords))
	medical.POST("", h.Medical.Create)
	medical.GET("/:id", h.Medical.Get)
	medical.GET("/:id/prescription", h.Document.Prescription)
	medical.GET("/patient/:patient_id", h.Medical.ListByPatient)

	billing := authed.Group("")
	billing.Use(middleware.RequireCapability(gate, rbac.CapBilling))
	billing.POST("/payments", h.Payment.Register)
	billing.GET("/payments", h.Payment.List)
	billing.GET("/payments/:id", h.Payment.Get)
	billing.GET("/payments/:id/receipt", h.Document.Receipt)
	billing.GET("/exports/payments", h.Document.PaymentsExport)

	reports := authed.Group("/reports")
	reports.Use(middleware.RequireCapability(gate, rbac.CapReports))
	reports.GET("/appointments", h.Report.AppointmentStats)
	reports.GET("/revenue", h.Report.MonthlyRevenue)
	reports.GET("/payment-methods", h.Report.PaymentsByMethod)

	admin := authed.Group("/users")
	admin.Use(middleware.RequireRoles(gate, model.RoleAdmin))
	admin.POST("", h.User.Create)
	admin.GET("", h.User.List)
	admin.GET("/:id", h.User.Get)
	admin.PATCH("/:id/status", h.User.UpdateStatus)

	configuration := authed.Group("")
	configuration.Use(middleware.RequireCapability(gate, rbac.CapConfiguration))
	configuration.GET("/config", h.Clinic.GetConfig)
	configuration.PUT("/config", h.Clinic.UpdateConfig)
	configuration.POST("/specialties", h.Clinic.CreateSpecialty)

	return r
}
