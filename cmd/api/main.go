package main

import (
	"clinicdesk/cmd/internal/cache"
	"clinicdesk/cmd/internal/domain/sqlite"
	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/jobs"
	"clinicdesk/cmd/internal/routes"
	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils/validators"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	validate := validator.New()
	registerValidators(validate)

	err := godotenv.Load()
	if err != nil {
		log.Warn("no .env file found, using process environment")
	}

	// Init SQLite
	db, err := sqlite.Init()
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Redis-backed dashboard cache (no-op without REDIS_URL)
	cacheStore := cache.New()

	// Getting repositories
	patientRepo := repository.NewPatientRepository(db)
	therapistRepo := repository.NewTherapistRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	userRepo := repository.NewUserRepository(db)
	inviteRepo := repository.NewInviteRepository(db)

	// Getting services
	recurrenceService := service.NewRecurrenceService(db, cacheStore)
	apptService := service.NewAppointmentService(db, recurrenceService, validate, cacheStore)
	patientService := service.NewPatientService(patientRepo, validate)
	therapistService := service.NewTherapistService(therapistRepo, validate)
	sessionService := service.NewSessionService(sessionRepo, validate, cacheStore)
	transactionService := service.NewTransactionService(transactionRepo, validate, cacheStore)
	dashboardService := service.NewDashboardService(sessionRepo, transactionRepo, cacheStore)
	userService := service.NewUserService(userRepo, validate)
	inviteService := service.NewInviteService(inviteRepo, userRepo, validate, os.Getenv("INVITE_TOKEN_SECRET"))

	// Getting routes
	apptRoutes := routes.NewAppointmentDefault(apptService)
	patientRoutes := routes.NewPatientDefault(patientService)
	therapistRoutes := routes.NewTherapistDefault(therapistService)
	sessionRoutes := routes.NewSessionDefault(sessionService)
	transactionRoutes := routes.NewTransactionDefault(transactionService)
	dashboardRoutes := routes.NewDashboardDefault(dashboardService)
	userRoutes := routes.NewUserDefault(userService)
	inviteRoutes := routes.NewInviteDefault(inviteService)

	// Nightly maintenance
	scheduler := jobs.Start(db, cacheStore)
	defer scheduler.Stop()

	e := echo.New()
	e.Use(middleware.CORS())

	// Appointments + recurrence
	e.GET("/api/appointments", apptRoutes.GetAppointments)
	e.GET("/api/appointments/:id", apptRoutes.GetAppointment)
	e.POST("/api/appointments", apptRoutes.CreateAppointment)
	e.PUT("/api/appointments/:id", apptRoutes.UpdateAppointment)
	e.DELETE("/api/appointments/:id", apptRoutes.DeleteAppointment)
	e.POST("/api/recurrences/preview", apptRoutes.PreviewRecurrence)

	// Patients
	e.GET("/api/patients", patientRoutes.GetPatients)
	e.GET("/api/patients/:id", patientRoutes.GetPatient)
	e.POST("/api/patients", patientRoutes.CreatePatient)
	e.PUT("/api/patients/:id", patientRoutes.UpdatePatient)
	e.DELETE("/api/patients/:id", patientRoutes.DeletePatient)

	// Therapists
	e.GET("/api/therapists", therapistRoutes.GetTherapists)
	e.GET("/api/therapists/:id", therapistRoutes.GetTherapist)
	e.POST("/api/therapists", therapistRoutes.CreateTherapist)
	e.PUT("/api/therapists/:id", therapistRoutes.UpdateTherapist)
	e.DELETE("/api/therapists/:id", therapistRoutes.DeleteTherapist)

	// Sessions
	e.GET("/api/sessions", sessionRoutes.GetSessions)
	e.GET("/api/sessions/:id", sessionRoutes.GetSession)
	e.PATCH("/api/sessions/:id/payment", sessionRoutes.UpdatePayment)

	// Financial transactions + dashboard
	e.GET("/api/transactions", transactionRoutes.GetTransactions)
	e.POST("/api/transactions", transactionRoutes.CreateTransaction)
	e.PUT("/api/transactions/:id", transactionRoutes.UpdateTransaction)
	e.DELETE("/api/transactions/:id", transactionRoutes.DeleteTransaction)
	e.GET("/api/dashboard/financial", dashboardRoutes.GetFinancialSummary)

	// Users + invites
	e.GET("/api/users", userRoutes.GetUsers)
	e.GET("/api/users/:id", userRoutes.GetUser)
	e.POST("/api/users", userRoutes.CreateUser)
	e.GET("/api/invites", inviteRoutes.GetInvites)
	e.POST("/api/invites", inviteRoutes.CreateInvite)
	e.POST("/api/invites/accept", inviteRoutes.AcceptInvite)

	port := os.Getenv("PORT")
	if port == "" {
		port = "6060"
	}
	err = e.Start(":" + port)
	if err != nil {
		e.Logger.Fatal(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("iso8601", validators.IsIso8601)
	_ = validate.RegisterValidation("isodate", validators.IsIsoDate)
	_ = validate.RegisterValidation("hhmm", validators.IsClockTime)
}
