package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mediboard/mediboard/internal/config"
	"github.com/mediboard/mediboard/internal/db"
	"github.com/mediboard/mediboard/internal/repository"
	"github.com/mediboard/mediboard/internal/service"
	"github.com/mediboard/mediboard/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	AuthService         *service.AuthService
	UserService         *service.UserService
	ResetService        *service.ResetService
	EmailService        *service.EmailService
	RecordsService      *service.RecordsService
	AppointmentService  *service.AppointmentService
	BillingService      *service.BillingService
	NotificationService *service.NotificationService
	ReportService       *service.ReportService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	doctorRepository := repository.NewDoctorRepository(database)
	patientRepository := repository.NewPatientRepository(database)
	appointmentRepository := repository.NewAppointmentRepository(database)
	prescriptionRepository := repository.NewPrescriptionRepository(database)
	invoiceRepository := repository.NewInvoiceRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)
	labReportRepository := repository.NewLabReportRepository(database)

	// Storage is optional; without it lab report uploads are rejected.
	var fileStorage storage.Storage
	if cfg.S3Bucket != "" {
		s3Storage, err := storage.NewS3Storage(storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %v", err)
		}
		fileStorage = s3Storage
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepository)
	resetService := service.NewResetService(
		userRepository,
		tokenRepository,
		emailService,
		cfg.AppURL,
		cfg.TokenPasswordResetExpiry,
		cfg.IsDevelopment(),
	)
	notificationService := service.NewNotificationService(notificationRepository, userRepository, emailService)
	recordsService := service.NewRecordsService(authService, userRepository, patientRepository, doctorRepository)
	appointmentService := service.NewAppointmentService(
		appointmentRepository,
		patientRepository,
		doctorRepository,
		notificationService,
	)
	billingService := service.NewBillingService(
		prescriptionRepository,
		invoiceRepository,
		patientRepository,
		notificationService,
	)
	reportService := service.NewReportService(
		labReportRepository,
		patientRepository,
		fileStorage,
		cfg.S3PresignExpiry,
		notificationService,
	)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		AuthService:         authService,
		UserService:         userService,
		ResetService:        resetService,
		EmailService:        emailService,
		RecordsService:      recordsService,
		AppointmentService:  appointmentService,
		BillingService:      billingService,
		NotificationService: notificationService,
		ReportService:       reportService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
