package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user              *repository.UserRepository
	student           *repository.StudentRepository
	instructor        *repository.InstructorRepository
	category          *repository.CategoryRepository
	course            *repository.CourseRepository
	module            *repository.ModuleRepository
	enrollment        *repository.EnrollmentRepository
	attendance        *repository.AttendanceRepository
	trainerAttendance *repository.TrainerAttendanceRepository
	assignment        *repository.AssignmentRepository
	submission        *repository.SubmissionRepository
	material          *repository.MaterialRepository
	video             *repository.VideoRepository
	report            *repository.ReportRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	enrollment *service.EnrollmentService
	attendance *service.AttendanceService
	report     *service.ReportService
	catalog    *service.CatalogService
	roster     *service.RosterService
	curriculum *service.CurriculumService
	content    *service.ContentService
	assignment *service.AssignmentService
}

type controllers struct {
	auth       *controller.AuthController
	catalog    *controller.CatalogController
	enrollment *controller.EnrollmentController
	attendance *controller.AttendanceController
	report     *controller.ReportController
	roster     *controller.RosterController
	curriculum *controller.CurriculumController
	content    *controller.ContentController
	assignment *controller.AssignmentController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:              repository.NewUserRepository(db),
		student:           repository.NewStudentRepository(db),
		instructor:        repository.NewInstructorRepository(db),
		category:          repository.NewCategoryRepository(db),
		course:            repository.NewCourseRepository(db),
		module:            repository.NewModuleRepository(db),
		enrollment:        repository.NewEnrollmentRepository(db),
		attendance:        repository.NewAttendanceRepository(db),
		trainerAttendance: repository.NewTrainerAttendanceRepository(db),
		assignment:        repository.NewAssignmentRepository(db),
		submission:        repository.NewSubmissionRepository(db),
		material:          repository.NewMaterialRepository(db),
		video:             repository.NewVideoRepository(db),
		report:            repository.NewReportRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.student, repos.instructor, cfg)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.student)
	s.attendance = service.NewAttendanceService(
		repos.attendance,
		repos.trainerAttendance,
		repos.enrollment,
		repos.student,
		repos.instructor,
		repos.course,
	)
	s.report = service.NewReportService(
		repos.report,
		repos.enrollment,
		repos.attendance,
		repos.trainerAttendance,
		repos.student,
		repos.instructor,
		repos.course,
		repos.material,
		repos.video,
		repos.submission,
		rdb,
	)
	s.catalog = service.NewCatalogService(repos.course, repos.category, repos.enrollment)
	s.roster = service.NewRosterService(
		repos.user,
		repos.student,
		repos.instructor,
		repos.course,
		repos.category,
		repos.enrollment,
		cfg,
		db,
	)
	s.curriculum = service.NewCurriculumService(repos.module, repos.course)
	s.content = service.NewContentService(repos.material, repos.video, repos.course, repos.enrollment, s.storage)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.submission, repos.course, repos.enrollment)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		catalog:    controller.NewCatalogController(s.catalog),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		attendance: controller.NewAttendanceController(s.attendance),
		report:     controller.NewReportController(s.report),
		roster:     controller.NewRosterController(s.roster),
		curriculum: controller.NewCurriculumController(s.curriculum),
		content:    controller.NewContentController(s.content),
		assignment: controller.NewAssignmentController(s.assignment),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	// Handlers and middleware read the config from the request context.
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})

	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("lms-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
