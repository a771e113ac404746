package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-frontdesk/config"
	deliveryHttp "hospital-frontdesk/internal/delivery/http"
	"hospital-frontdesk/internal/delivery/http/handler"
	"hospital-frontdesk/internal/delivery/http/middleware"
	"hospital-frontdesk/internal/infrastructure/cache"
	"hospital-frontdesk/internal/infrastructure/database"
	"hospital-frontdesk/internal/infrastructure/storage"
	"hospital-frontdesk/internal/repository"
	"hospital-frontdesk/internal/seed"
	"hospital-frontdesk/internal/service"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/jwt"
	"hospital-frontdesk/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config        *config.Config
	Log           *logrus.Logger
	DB            *gorm.DB
	RedisClient   *redis.Client
	TicketService *service.TicketService
	Server        *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context) (*App, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Log: log}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	fileStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Infof("File storage driver: %s", cfg.Storage.Driver)

	if err := app.initializeServer(fileStore); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// loadConfig reads configuration and builds the JSON logger everything else shares
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, setupLogger(cfg.App), nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// initializeServer wires repositories, services, usecases and handlers into the HTTP server
func (app *App) initializeServer(fileStore storage.FileStore) error {
	cfg, log, db := app.Config, app.Log, app.DB

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	historyRepo := repository.NewMedicalHistoryRepository()
	hospitalRepo := repository.NewHospitalProfileRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	renderer, err := service.NewPrescriptionRenderer(cfg.Document)
	if err != nil {
		return err
	}
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewTokenStore(app.RedisClient)
	app.TicketService = service.NewTicketService(db, app.RedisClient, log, appointmentRepo, renderer.Location())
	uploader := storage.NewUploader(fileStore, cfg.Storage.MaxUploadSize)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, tokenStore, auditService)
	queueUsecase := usecase.NewQueueUsecase(db, log, userRepo, appointmentRepo, app.TicketService, auditService)
	historyUsecase := usecase.NewHistoryUsecase(db, log, historyRepo, uploader, auditService)
	hospitalUsecase := usecase.NewHospitalUsecase(db, log, hospitalRepo, auditService)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, userRepo, hospitalRepo, prescriptionRepo, renderer, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(historyUsecase, queueUsecase, prescriptionUsecase, customValidator, uploader.MaxSize())
	doctorHandler := handler.NewDoctorHandler(queueUsecase, hospitalUsecase, customValidator)
	prescriptionHandler := handler.NewPrescriptionHandler(prescriptionUsecase, customValidator)
	receptionHandler := handler.NewReceptionHandler(queueUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	router := deliveryHttp.NewRouter(
		authHandler,
		patientHandler,
		doctorHandler,
		prescriptionHandler,
		receptionHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM
func (app *App) Run(ctx context.Context) error {
	// A stale ticket counter only repeats display numbers, so serve anyway
	if err := app.TicketService.SyncOnStartup(ctx); err != nil {
		app.Log.Warnf("Failed to sync ticket counter: %+v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	app.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()
	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

// Migrate applies (steps == 0) or rolls back (steps > 0) the embedded schema migrations
func Migrate(steps int) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	migrator, err := database.NewMigrator(database.MigrationURL(cfg.DB), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Warnf("Failed to close migrator: %+v", err)
		}
	}()

	if steps > 0 {
		return migrator.Down(steps)
	}
	return migrator.Up()
}

// Seed inserts the demo doctor, hospital profile, patient and prescription
func Seed(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	seeder := seed.NewSeeder(
		db,
		log,
		repository.NewUserRepository(),
		repository.NewHospitalProfileRepository(),
		repository.NewPrescriptionRepository(),
	)
	return seeder.Run(ctx)
}
