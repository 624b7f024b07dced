package routes

import (
	"net/http"

	"github.com/mediboard/mediboard/internal/app"
	"github.com/mediboard/mediboard/internal/handler"
	"github.com/mediboard/mediboard/internal/middleware"
	"github.com/mediboard/mediboard/internal/model"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(a.AuthService, a.RecordsService)
	password := handler.NewPasswordHandler(a.ResetService)
	doctor := handler.NewDoctorHandler(a.RecordsService)
	patient := handler.NewPatientHandler(a.RecordsService)
	appointment := handler.NewAppointmentHandler(a.AppointmentService, a.RecordsService)
	prescription := handler.NewPrescriptionHandler(a.BillingService, a.RecordsService)
	invoice := handler.NewInvoiceHandler(a.BillingService, a.RecordsService)
	notification := handler.NewNotificationHandler(a.NotificationService)
	report := handler.NewReportHandler(a.ReportService, a.RecordsService)

	mux := http.NewServeMux()

	// Auth and password reset, rate limited per client IP.
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/signup", rateLimiter(auth.Signup))
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))
	mux.HandleFunc("POST /api/auth/change-password", middleware.RequireAuth(auth.ChangePassword))

	mux.HandleFunc("POST /api/password/forgot", rateLimiter(password.Forgot))
	mux.HandleFunc("GET /api/password/validate", password.Validate)
	mux.HandleFunc("POST /api/password/reset", rateLimiter(password.Reset))

	// Staff directory
	staffOnly := middleware.RequireRole(model.RoleAdmin, model.RoleDoctor)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	mux.HandleFunc("GET /api/doctors", middleware.RequireAuth(doctor.List))
	mux.HandleFunc("GET /api/doctors/{id}", middleware.RequireAuth(doctor.Get))
	mux.HandleFunc("POST /api/doctors", adminOnly(doctor.Create))
	mux.HandleFunc("PATCH /api/doctors/{id}", adminOnly(doctor.Update))

	mux.HandleFunc("GET /api/patients", staffOnly(patient.List))
	mux.HandleFunc("GET /api/patients/{id}", middleware.RequireAuth(patient.Get))
	mux.HandleFunc("POST /api/patients", staffOnly(patient.Create))
	mux.HandleFunc("PATCH /api/patients/{id}", middleware.RequireAuth(patient.Update))

	// Appointments
	mux.HandleFunc("GET /api/appointments", middleware.RequireAuth(appointment.List))
	mux.HandleFunc("POST /api/appointments", middleware.RequireAuth(appointment.Book))
	mux.HandleFunc("PATCH /api/appointments/{id}/status", middleware.RequireAuth(appointment.SetStatus))

	// Prescriptions and billing
	mux.HandleFunc("GET /api/prescriptions", middleware.RequireAuth(prescription.List))
	mux.HandleFunc("GET /api/prescriptions/{id}", middleware.RequireAuth(prescription.Get))
	mux.HandleFunc("POST /api/prescriptions", middleware.RequireRole(model.RoleDoctor)(prescription.Create))

	mux.HandleFunc("GET /api/invoices", middleware.RequireRole(model.RoleAdmin, model.RolePatient)(invoice.List))
	mux.HandleFunc("POST /api/invoices", adminOnly(invoice.Create))
	mux.HandleFunc("PATCH /api/invoices/{id}/status", adminOnly(invoice.SetStatus))

	// Notifications
	mux.HandleFunc("GET /api/notifications", middleware.RequireAuth(notification.List))
	mux.HandleFunc("GET /api/notifications/unread", middleware.RequireAuth(notification.UnreadCount))
	mux.HandleFunc("POST /api/notifications/{id}/read", middleware.RequireAuth(notification.MarkRead))

	// Lab reports
	mux.HandleFunc("POST /api/reports", middleware.RequireRole(model.RoleDoctor)(report.Upload))
	mux.HandleFunc("GET /api/patients/{id}/reports", middleware.RequireAuth(report.ListByPatient))
	mux.HandleFunc("GET /api/reports/{id}/download", middleware.RequireAuth(report.Download))

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Global middleware
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(a.AuthService, a.UserService),
	)
}
