package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicasys/clinica-api/internal/config"
	"github.com/clinicasys/clinica-api/internal/email"
	"github.com/clinicasys/clinica-api/internal/handler"
	"github.com/clinicasys/clinica-api/internal/repository/postgres"
	"github.com/clinicasys/clinica-api/internal/router"
	appointmentsvc "github.com/clinicasys/clinica-api/internal/service/appointment"
	authsvc "github.com/clinicasys/clinica-api/internal/service/auth"
	clinicsvc "github.com/clinicasys/clinica-api/internal/service/clinic"
	medicalsvc "github.com/clinicasys/clinica-api/internal/service/medical"
	patientsvc "github.com/clinicasys/clinica-api/internal/service/patient"
	paymentsvc "github.com/clinicasys/clinica-api/internal/service/payment"
	reportsvc "github.com/clinicasys/clinica-api/internal/service/report"
	"github.com/clinicasys/clinica-api/internal/service/rbac"
	usersvc "github.com/clinicasys/clinica-api/internal/service/user"
	"github.com/clinicasys/clinica-api/pkg/auth"
	"github.com/clinicasys/clinica-api/pkg/document"
	"github.com/clinicasys/clinica-api/pkg/logger"
	"github.com/clinicasys/clinica-api/pkg/metrics"
	"github.com/clinicasys/clinica-api/pkg/security"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal(err, "failed to apply schema")
	}

	hasher := security.NewBcryptHasher(0)
	adminHash, err := hasher.Hash(cfg.Clinic.AdminPassword)
	if err != nil {
		log.Fatal(err, "failed to hash admin password")
	}
	if err := postgres.Seed(ctx, db, cfg.Clinic, adminHash); err != nil {
		log.Fatal(err, "failed to seed database")
	}

	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	medicalRepo := postgres.NewMedicalRecordRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	m := metrics.New("clinica")
	mailer := email.NewSender(cfg.SMTP, cfg.Clinic.Name, log)
	gate := rbac.NewService()

	clinicService := clinicsvc.NewService(clinicRepo)
	appointmentService := appointmentsvc.NewService(appointmentRepo, patientRepo, userRepo, clinicService, m)
	patientService := patientsvc.NewService(patientRepo)
	userService := usersvc.NewService(userRepo, hasher, mailer, log)
	authService := authsvc.NewService(userRepo, jwtSvc, hasher)
	medicalService := medicalsvc.NewService(medicalRepo, patientRepo, userRepo)
	paymentService := paymentsvc.NewService(paymentRepo, appointmentRepo)
	reportService := reportsvc.NewService(patientRepo, appointmentRepo, userRepo, paymentRepo)

	pdfGen := document.NewPDFGenerator(cfg.Clinic.Name)
	excelExp := document.NewExcelExporter()

	engine := router.New(cfg, log, jwtSvc, gate, router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Patient:     handler.NewPatientHandler(patientService),
		Appointment: handler.NewAppointmentHandler(appointmentService),
		Medical:     handler.NewMedicalRecordHandler(medicalService),
		Payment:     handler.NewPaymentHandler(paymentService),
		Report:      handler.NewReportHandler(reportService),
		Clinic:      handler.NewClinicHandler(clinicService),
		Document:    handler.NewDocumentHandler(pdfGen, excelExp, paymentService, medicalService, patientService, appointmentService),
		Health:      handler.NewHealthHandler(db),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "forced shutdown")
	}
}
