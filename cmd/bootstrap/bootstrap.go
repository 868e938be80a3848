package bootstrap

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/config"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	deliveryHttp "github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/http"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/http/handler"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/http/middleware"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/infrastructure/cache"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/infrastructure/database"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/infrastructure/storage"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/repository"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/service"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/usecase"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/jwt"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/validator"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 10 * time.Second
	startupTimeout  = 30 * time.Second
)

// App holds all dependencies for the application
type App struct {
	Config       *config.Config
	Log          *logrus.Logger
	DB           *gorm.DB
	RedisClient  *redis.Client
	MongoClient  *mongo.Client
	MinioClient  *minio.Client
	Reservations *service.SlotReservationService
	Maintenance  *service.MaintenanceWorker
	Server       *http.Server

	// baseCtx is the parent of every request context and background job.
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.App.LogLevel)
	app.Log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	if err := database.MigrateUp(cfg.DB); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.Log.Info("Redis connected successfully")

	// Initialize MongoDB (activity log)
	mongoClient, err := database.NewMongoClient(cfg.Mongo)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	app.MongoClient = mongoClient

	// Initialize MinIO (avatars)
	minioClient, err := storage.NewMinioClient(cfg.Minio)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	app.MinioClient = minioClient
	app.Log.Info("MinIO connected successfully")

	// Initialize all layers
	if err := app.initialize(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// initialize wires repositories, services, usecases and the HTTP server
func (app *App) initialize() error {
	cfg := app.Config
	log := app.Log
	db := app.DB
	loc := cfg.Clinic.Location()

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorRepository()
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	medicalRecordRepo := repository.NewMedicalRecordRepository()
	activityLogRepo := repository.NewActivityLogRepository(app.MongoClient, cfg.Mongo.Database)

	// Initialize services
	sessions := service.NewSessionStore(app.RedisClient, log)
	activity := service.NewActivityService(log, activityLogRepo)
	notifier := service.NewQueueNotifier(app.RedisClient, log)
	avatars := service.NewAvatarStorage(app.MinioClient, cfg.Minio.Bucket, cfg.Minio.PublicURL, log)
	app.Reservations = service.NewSlotReservationService(db, app.RedisClient, log, appointmentRepo, loc, cfg.Clinic.CancelledFreesSlot)

	// Rebuild reservations lost by a Redis restart before accepting bookings.
	syncCtx, cancelSync := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelSync()
	if err := app.Reservations.SyncOnStartup(syncCtx); err != nil {
		return fmt.Errorf("failed to sync slot reservations: %w", err)
	}

	clock := usecase.NewClock(loc)
	policy := usecase.SchedulingPolicy{
		Clock:              clock,
		SlotStep:           cfg.Clinic.SlotDuration(),
		CancelledFreesSlot: cfg.Clinic.CancelledFreesSlot,
	}
	defaultAvatar := cfg.Clinic.DefaultAvatar

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, sessions, activity)
	userUsecase := usecase.NewUserUsecase(db, log, userRepo, sessions, activity, avatars, defaultAvatar)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, appointmentRepo, activity, avatars, policy, defaultAvatar)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, appointmentRepo, medicalRecordRepo, activity, avatars, clock, defaultAvatar)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, doctorRepo, patientRepo, app.Reservations, activity, notifier, policy)
	queueUsecase := usecase.NewQueueUsecase(db, log, appointmentRepo, doctorRepo, medicalRecordRepo, activity, notifier, clock)
	publicBookingUsecase := usecase.NewPublicBookingUsecase(db, log, doctorRepo, patientRepo, appointmentRepo, app.Reservations, activity, notifier, policy, usecase.BookingDefaults{
		Reason: cfg.Clinic.OnlineBookingReason,
		Avatar: defaultAvatar,
	})
	financialUsecase := usecase.NewFinancialUsecase(db, log, appointmentRepo, doctorRepo, clock, cfg.Clinic.RevenueWindowDays)
	dashboardUsecase := usecase.NewDashboardUsecase(db, log, appointmentRepo, clock)
	activityLogUsecase := usecase.NewActivityLogUsecase(log, activityLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:        handler.NewAuthHandler(authUsecase, customValidator),
		User:        handler.NewUserHandler(userUsecase, customValidator),
		Doctor:      handler.NewDoctorHandler(doctorUsecase, customValidator),
		Patient:     handler.NewPatientHandler(patientUsecase, customValidator),
		Appointment: handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Queue:       handler.NewQueueHandler(queueUsecase, customValidator),
		Public:      handler.NewPublicHandler(publicBookingUsecase, doctorUsecase, customValidator),
		Report:      handler.NewReportHandler(dashboardUsecase, financialUsecase, activityLogUsecase, customValidator),
		Settings: handler.NewSettingsHandler(dto.SettingsResponse{
			Timezone:            loc.String(),
			SlotMinutes:         cfg.Clinic.SlotMinutes,
			CancelledFreesSlot:  cfg.Clinic.CancelledFreesSlot,
			OnlineBookingReason: cfg.Clinic.OnlineBookingReason,
			DefaultAvatar:       defaultAvatar,
			RevenueWindowDays:   cfg.Clinic.RevenueWindowDays,
		}),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessions, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, log, deliveryHttp.RouterOptions{
		RequestTimeout:  cfg.App.RequestTimeout,
		PublicRateLimit: cfg.App.PublicRateLimit,
	})

	// Background jobs
	app.Maintenance = service.NewMaintenanceWorker(log, app.RedisClient, app.Reservations, notifier, loc, cfg.Cron.ResyncSpec)

	// Create server
	app.baseCtx, app.cancel = context.WithCancel(context.Background())
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return app.baseCtx },
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.Maintenance.Start(app.baseCtx)

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Shutdown does not track hijacked websocket connections; this ends the live queue streams.
	if app.cancel != nil {
		app.cancel()
	}

	if app.Maintenance != nil {
		app.Maintenance.Stop()
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		_ = app.RedisClient.Close()
	}

	// Close MongoDB connection
	if app.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.MongoClient.Disconnect(ctx)
	}
}
