package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-records-api/api/swagger"
	"github.com/noah-isme/school-records-api/internal/handler"
	internalmiddleware "github.com/noah-isme/school-records-api/internal/middleware"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
	"github.com/noah-isme/school-records-api/internal/service"
	"github.com/noah-isme/school-records-api/pkg/cache"
	"github.com/noah-isme/school-records-api/pkg/config"
	"github.com/noah-isme/school-records-api/pkg/database"
	"github.com/noah-isme/school-records-api/pkg/logger"
	reqidmiddleware "github.com/noah-isme/school-records-api/pkg/middleware/requestid"
)

// @title School Records API
// @version 1.0.0
// @description Attendance, grades and report cards over the school record store
// @description Request and response keys are snake_case (courseId is course_id, studentId is student_id).
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Store)
	if err != nil {
		logr.Fatal("failed to connect to record store", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Reports.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("report cache disabled, redis unavailable", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	profileRepo := repository.NewProfileRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "school-records", logr)

	validate := service.NewValidator()
	metricsSvc := service.NewMetricsService()
	authz := service.NewPolicyAuthorizer(courseRepo, logr)
	authSvc := service.NewAuthService(profileRepo, logr, service.AuthConfig{
		AccessKey: cfg.Store.AccessKey,
		Issuer:    cfg.Auth.Issuer,
		Audience:  cfg.Auth.Audience,
	})
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, redisClient != nil)

	attendanceSvc := service.NewAttendanceService(attendanceRepo, authz, metricsSvc, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, authz, cacheSvc, metricsSvc, service.ScoreBounds{
		Min: cfg.Grades.ScoreMin,
		Max: cfg.Grades.ScoreMax,
	}, validate, logr)
	reportSvc := service.NewReportService(gradeRepo, authz, cacheSvc, metricsSvc, logr, service.ReportConfig{
		CacheTTL:         cfg.Reports.CacheTTL,
		CompareStoreView: cfg.Reports.CompareStoreView,
	})
	exportSvc := service.NewExportService(reportSvc, profileRepo, logr)
	profileSvc := service.NewProfileService(profileRepo, authz, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, enrollmentRepo, authz, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, profileRepo, authz, validate, logr)
	evaluationSvc := service.NewEvaluationService(evaluationRepo, authz, validate, logr)

	auditSvc := service.NewAuditService(service.AuditConfig{
		Enabled:    cfg.Audit.Enabled,
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
	}, metricsSvc, logr)
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	reportHandler := handler.NewReportHandler(reportSvc, exportSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	evaluationHandler := handler.NewEvaluationHandler(evaluationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(cors.New(corsConfig(cfg.CORS)))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(authSvc))

	api.GET("/me", profileHandler.Me)
	api.GET("/me/report-card", internalmiddleware.RequireRoles(models.RoleStudent), reportHandler.Mine)
	api.GET("/me/course-subjects", courseHandler.MySubjects)

	profiles := api.Group("/profiles")
	profiles.GET("/students", internalmiddleware.RequireStaff(), profileHandler.Students)
	profiles.GET("/staff", internalmiddleware.RequireStaff(), profileHandler.Staff)
	profiles.POST("", internalmiddleware.Audit(auditSvc, models.AuditActionProfileCreate, "profile"), profileHandler.Create)

	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/:id/students", internalmiddleware.RequireStaff(), courseHandler.Students)
	courses.GET("/:id/attendance", internalmiddleware.RequireStaff(), attendanceHandler.List)

	api.POST("/attendance", internalmiddleware.Audit(auditSvc, models.AuditActionAttendanceRecord, "course"), attendanceHandler.Record)
	api.POST("/grades", internalmiddleware.Audit(auditSvc, models.AuditActionGradeRecord, "grade"), gradeHandler.Record)
	api.POST("/evaluations", internalmiddleware.Audit(auditSvc, models.AuditActionEvaluationCreate, "evaluation"), evaluationHandler.Create)
	api.GET("/course-subjects/:id/evaluations", evaluationHandler.ListByCourseSubject)
	api.POST("/enrollments", internalmiddleware.Audit(auditSvc, models.AuditActionEnrollmentCreate, "enrollment"), enrollmentHandler.Enroll)

	api.GET("/students/:id/report-card", reportHandler.Student)
	api.GET("/students/:id/report-card/export", reportHandler.Export)

	api.GET("/metrics/summary", internalmiddleware.RequireStaff(), metricsHandler.Summary)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", reqidmiddleware.HeaderKey)
	c.ExposeHeaders = []string{"Content-Disposition", reqidmiddleware.HeaderKey}
	if len(cfg.AllowedOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = cfg.AllowedOrigins
	c.AllowCredentials = true
	return c
}
