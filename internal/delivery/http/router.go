package http

import (
	"net/http"

	"hospital-frontdesk/internal/delivery/http/handler"
	"hospital-frontdesk/internal/delivery/http/middleware"
	"hospital-frontdesk/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	patientHandler      *handler.PatientHandler
	doctorHandler       *handler.DoctorHandler
	prescriptionHandler *handler.PrescriptionHandler
	receptionHandler    *handler.ReceptionHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	doctorHandler *handler.DoctorHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	receptionHandler *handler.ReceptionHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		patientHandler:      patientHandler,
		doctorHandler:       doctorHandler,
		prescriptionHandler: prescriptionHandler,
		receptionHandler:    receptionHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Doctor directory, any signed-in user. Registered before the /doctor prefix.
	api.Handle("/doctors", r.authenticated(r.authHandler.ListDoctors)).Methods(http.MethodGet)

	// Attachments are readable by their patient and by clinical staff
	api.Handle("/patient/history/{id:[0-9]+}/file", r.authenticated(r.patientHandler.GetHistoryFile)).Methods(http.MethodGet)

	// Doctor routes
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/current", r.doctorHandler.CurrentPatient).Methods(http.MethodGet)
	doctor.HandleFunc("/complete", r.doctorHandler.CompleteCurrent).Methods(http.MethodPost)

	hospital := api.PathPrefix("/hospital").Subrouter()
	hospital.Use(r.authMiddleware.Authenticate)
	hospital.Use(middleware.RequireDoctor)
	hospital.HandleFunc("", r.doctorHandler.GetHospital).Methods(http.MethodGet)
	hospital.HandleFunc("/update", r.doctorHandler.UpdateHospital).Methods(http.MethodPost)

	// Patient routes
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/history", r.patientHandler.GetHistory).Methods(http.MethodGet)
	patient.HandleFunc("/add_history", r.patientHandler.AddHistory).Methods(http.MethodPost)
	patient.HandleFunc("/history/upload", r.patientHandler.UploadHistory).Methods(http.MethodPost)
	patient.HandleFunc("/checkin", r.patientHandler.Checkin).Methods(http.MethodPost)
	patient.HandleFunc("/prescriptions", r.patientHandler.GetPrescriptions).Methods(http.MethodGet)

	// Prescriptions: doctors write, owners and staff read
	prescription := api.PathPrefix("/prescription").Subrouter()
	prescription.Use(r.authMiddleware.Authenticate)
	prescription.Handle("/create", middleware.RequireDoctor(http.HandlerFunc(r.prescriptionHandler.Create))).Methods(http.MethodPost)
	prescription.HandleFunc("/{id:[0-9]+}", r.prescriptionHandler.Get).Methods(http.MethodGet)
	prescription.HandleFunc("/download/{id:[0-9]+}", r.prescriptionHandler.Download).Methods(http.MethodGet)

	// Reception routes
	reception := api.PathPrefix("/reception").Subrouter()
	reception.Use(r.authMiddleware.Authenticate)
	reception.Use(middleware.RequireReception)
	reception.HandleFunc("/next", r.receptionHandler.Next).Methods(http.MethodPost)
	reception.HandleFunc("/queue", r.receptionHandler.Queue).Methods(http.MethodGet)

	// Audit trail (medical staff)
	audit := api.PathPrefix("/audit-logs").Subrouter()
	audit.Use(r.authMiddleware.Authenticate)
	audit.Use(middleware.RequireRole(entity.RoleMedical))
	audit.HandleFunc("", r.auditLogHandler.ListByAction).Methods(http.MethodGet)

	// CORS preflight for every path
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.router.Use(r.loggingMiddleware.Recover)
	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) authenticated(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(h)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
