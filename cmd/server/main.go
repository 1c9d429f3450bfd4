package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	attendanceapp "github.com/attendance/backend/internal/application/attendance"
	appauth "github.com/attendance/backend/internal/application/auth"
	rosterapp "github.com/attendance/backend/internal/application/roster"
	infraauth "github.com/attendance/backend/internal/infrastructure/auth"
	"github.com/attendance/backend/internal/infrastructure/config"
	"github.com/attendance/backend/internal/infrastructure/facematch"
	"github.com/attendance/backend/internal/infrastructure/logger"
	"github.com/attendance/backend/internal/infrastructure/persistence"
	"github.com/attendance/backend/internal/infrastructure/storage"
	"github.com/attendance/backend/internal/infrastructure/telemetry"
	"github.com/attendance/backend/internal/interfaces/http/handler"
	"github.com/attendance/backend/internal/interfaces/http/middleware"
	"github.com/attendance/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Distributed tracing. With telemetry disabled this is a no-op provider.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.App.Env == "development",
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	courseRepo := persistence.NewGormCourseRepository(db.DB)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	recordRepo := persistence.NewGormRecordRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Token issuing and revocation. Redis keeps revocations shared across
	// replicas; a single instance falls back to the in-memory blacklist.
	jwtService := infraauth.NewJWTService(cfg.JWT)
	var blacklist infraauth.TokenBlacklist
	if redisBlacklist, err := infraauth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err),
		)
		blacklist = infraauth.NewInMemoryTokenBlacklist()
	} else {
		log.Info("Connected to Redis token blacklist", zap.String("addr", cfg.Redis.Addr()))
		blacklist = redisBlacklist
	}

	// Face encoder sidecar
	encoderClient := facematch.NewEncoderClient(cfg.Face)
	faceGateway := facematch.NewGateway(encoderClient, cfg.Face, log)

	// Photo storage
	var photoStorage rosterapp.ObjectStorageService
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure photo bucket", zap.Error(err))
		}
		log.Info("Object storage ready", zap.String("bucket", cfg.Storage.Bucket))
		photoStorage = s3Storage
	} else {
		log.Warn("Object storage disabled, photos held in memory only")
		photoStorage = storage.NewInMemoryObjectStorage()
	}

	// Application services
	authService := appauth.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := rosterapp.NewUserService(
		userRepo, courseRepo, enrollmentRepo, sessionRepo, recordRepo,
		faceGateway, photoStorage, txManager,
		rosterapp.UserServiceConfig{
			DefaultPassword: cfg.Provision.DefaultPassword,
			PhotoURLExpiry:  cfg.Storage.PresignExpiration,
		},
		log,
	)
	courseService := rosterapp.NewCourseService(
		courseRepo, userRepo, enrollmentRepo, sessionRepo, recordRepo, txManager, log,
	)
	ledgerService := attendanceapp.NewLedgerService(
		sessionRepo, recordRepo, userRepo, enrollmentRepo, faceGateway, txManager,
	)
	sessionService := attendanceapp.NewSessionService(
		sessionRepo, recordRepo, courseRepo, enrollmentRepo, ledgerService, txManager,
	)
	reportService := attendanceapp.NewReportService(
		sessionRepo, recordRepo, userRepo, courseRepo, enrollmentRepo,
	)

	engine := buildEngine(cfg, log, db, jwtService, blacklist)

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Course:     handler.NewCourseHandler(courseService),
		Session:    handler.NewSessionHandler(sessionService),
		Attendance: handler.NewAttendanceHandler(ledgerService, reportService),
		System:     handler.NewSystemHandler(db),
	}

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	for _, group := range router.Groups(handlers, router.Options{
		LoginLimiter: middleware.AuthRateLimit(loginLimiter),
	}) {
		r.Register(group)
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// buildEngine assembles the gin engine with the global middleware chain.
// Route-level authorization lives in the router groups; everything here
// applies to every request.
func buildEngine(
	cfg *config.Config,
	log *zap.Logger,
	db *persistence.Database,
	jwtService *infraauth.JWTService,
	blacklist infraauth.TokenBlacklist,
) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	if cfg.Telemetry.Enabled {
		engine.Use(
			middleware.TracingWithConfig(middleware.TracingConfig{
				ServiceName: cfg.Telemetry.ServiceName,
				Enabled:     true,
			}),
			middleware.SpanErrorMarker(),
		)
	}

	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		Validator:      jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/health",
			"/api/v1/auth/login",
			"/api/v1/system/ping",
			"/api/v1/system/health",
		},
		Logger: log,
	}))

	// Unversioned liveness probe for load balancers
	engine.GET("/health", handler.NewSystemHandler(db).Health)

	return engine
}
