package http

import (
	"net/http"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/http/handler"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/http/middleware"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Doctor      *handler.DoctorHandler
	Patient     *handler.PatientHandler
	Appointment *handler.AppointmentHandler
	Queue       *handler.QueueHandler
	Public      *handler.PublicHandler
	Report      *handler.ReportHandler
	Settings    *handler.SettingsHandler
}

type RouterOptions struct {
	RequestTimeout  time.Duration
	PublicRateLimit int
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	log            *logrus.Logger
	options        RouterOptions
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	log *logrus.Logger,
	options RouterOptions,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		log:            log,
		options:        options,
	}
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(middleware.RequestLogger(r.log))
	r.router.Use(middleware.Timeout(r.options.RequestTimeout))

	// CORS preflight must match a route for the middleware to run.
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {})

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Public booking page (rate limited per IP)
	public := api.PathPrefix("/public").Subrouter()
	public.Use(middleware.PublicRateLimit(r.options.PublicRateLimit))
	public.HandleFunc("/doctors", h.Public.GetDoctors).Methods(http.MethodGet)
	public.HandleFunc("/doctors/{id}/slots", h.Doctor.GetSlots).Methods(http.MethodGet)
	public.HandleFunc("/bookings", h.Public.CreateBooking).Methods(http.MethodPost)

	// Everything below needs a session
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/password", h.Auth.ChangePassword).Methods(http.MethodPut)

	protected.HandleFunc("/doctors", h.Doctor.GetAllDoctors).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}", h.Doctor.GetDoctor).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}/slots", h.Doctor.GetSlots).Methods(http.MethodGet)

	dashboard := r.withPermission(protected, entity.PermissionViewDashboard)
	dashboard.HandleFunc("/dashboard", h.Report.GetDashboard).Methods(http.MethodGet)

	// Appointments
	appointments := r.withPermission(protected, entity.PermissionManageAppointments)
	appointments.HandleFunc("/appointments", h.Appointment.ListAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("/appointments", h.Appointment.CreateAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("/appointments/summary", h.Appointment.GetSummary).Methods(http.MethodGet)
	appointments.HandleFunc("/appointments/{id}", h.Appointment.GetAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/appointments/{id}", h.Appointment.UpdateAppointment).Methods(http.MethodPut)
	appointments.HandleFunc("/appointments/{id}/cancel", h.Appointment.CancelAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("/appointments/{id}/status", h.Appointment.ChangeStatus).Methods(http.MethodPatch)

	// Doctor management
	doctors := r.withPermission(protected, entity.PermissionManageDoctors)
	doctors.HandleFunc("/doctors", h.Doctor.CreateDoctor).Methods(http.MethodPost)
	doctors.HandleFunc("/doctors/{id}", h.Doctor.UpdateDoctor).Methods(http.MethodPut)
	doctors.HandleFunc("/doctors/{id}", h.Doctor.DeleteDoctor).Methods(http.MethodDelete)
	doctors.HandleFunc("/doctors/{id}/avatar", h.Doctor.UploadAvatar).Methods(http.MethodPost)

	// Patients
	patients := r.withPermission(protected, entity.PermissionManagePatients)
	patients.HandleFunc("/patients", h.Patient.SearchPatients).Methods(http.MethodGet)
	patients.HandleFunc("/patients", h.Patient.CreatePatient).Methods(http.MethodPost)
	patients.HandleFunc("/patients/{id}", h.Patient.GetPatient).Methods(http.MethodGet)
	patients.HandleFunc("/patients/{id}", h.Patient.UpdatePatient).Methods(http.MethodPut)
	patients.HandleFunc("/patients/{id}", h.Patient.DeletePatient).Methods(http.MethodDelete)
	patients.HandleFunc("/patients/{id}/medical-records", h.Patient.AddMedicalRecord).Methods(http.MethodPost)
	patients.HandleFunc("/patients/{id}/avatar", h.Patient.UploadAvatar).Methods(http.MethodPost)

	// Queue
	queue := r.withPermission(protected, entity.PermissionViewQueue)
	queue.HandleFunc("/queue", h.Queue.GetQueue).Methods(http.MethodGet)
	queue.HandleFunc("/queue/live", h.Queue.Live).Methods(http.MethodGet)
	queue.HandleFunc("/queue/{id}/start", h.Queue.StartSession).Methods(http.MethodPost)
	queue.HandleFunc("/queue/{id}/end", h.Queue.EndSession).Methods(http.MethodPost)

	financials := r.withPermission(protected, entity.PermissionViewFinancials)
	financials.HandleFunc("/financials", h.Report.GetFinancials).Methods(http.MethodGet)

	// User management
	users := r.withPermission(protected, entity.PermissionManageUsers)
	users.HandleFunc("/users", h.User.GetAllUsers).Methods(http.MethodGet)
	users.HandleFunc("/users", h.User.CreateUser).Methods(http.MethodPost)
	users.HandleFunc("/users/{id}", h.User.GetUser).Methods(http.MethodGet)
	users.HandleFunc("/users/{id}", h.User.UpdateUser).Methods(http.MethodPut)
	users.HandleFunc("/users/{id}", h.User.DeleteUser).Methods(http.MethodDelete)
	users.HandleFunc("/users/{id}/permissions", h.User.UpdatePermissions).Methods(http.MethodPut)
	users.HandleFunc("/users/{id}/avatar", h.User.UploadAvatar).Methods(http.MethodPost)

	activity := r.withPermission(protected, entity.PermissionViewActivityLog)
	activity.HandleFunc("/activity", h.Report.GetActivity).Methods(http.MethodGet)

	settings := r.withPermission(protected, entity.PermissionManageSettings)
	settings.HandleFunc("/settings", h.Settings.GetSettings).Methods(http.MethodGet)

	return r.router
}

// withPermission returns a subrouter of parent gated by one permission.
func (r *Router) withPermission(parent *mux.Router, permission entity.Permission) *mux.Router {
	sub := parent.NewRoute().Subrouter()
	sub.Use(middleware.RequirePermission(permission))
	return sub
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status": "ok"}`))
}
