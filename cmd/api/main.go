package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shulehub/matokeo-api/internal/config"
	"github.com/shulehub/matokeo-api/internal/database"
	"github.com/shulehub/matokeo-api/internal/handler"
	"github.com/shulehub/matokeo-api/internal/middleware"
	"github.com/shulehub/matokeo-api/internal/models"
	"github.com/shulehub/matokeo-api/internal/repository"
	"github.com/shulehub/matokeo-api/internal/router"
	"github.com/shulehub/matokeo-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Student{},
		&models.SchoolClass{},
		&models.Subject{},
		&models.Paper{},
		&models.Exam{},
		&models.RawResult{},
		&models.GradingSystem{},
		&models.GradingRule{},
		&models.SubjectAggregate{},
		&models.StudentAggregate{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	examRepo := repository.NewExamRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	resultRepo := repository.NewResultRepository(db)
	gradingRepo := repository.NewGradingRepository(db)

	reportService := service.NewReportService(examRepo, studentRepo, subjectRepo, resultRepo, gradingRepo, redisClient, cfg.ReportCacheTTL, logger)
	trendService := service.NewTrendService(examRepo, studentRepo, subjectRepo, resultRepo, gradingRepo, logger)

	reportHandler := handler.NewReportHandler(reportService, trendService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ReportHandler: reportHandler,
		JWTMiddleware: middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
