package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campushq/course-service/internal/api"
	"github.com/campushq/course-service/internal/config"
	"github.com/campushq/course-service/internal/handler"
	"github.com/campushq/course-service/internal/infrastructure/auth"
	"github.com/campushq/course-service/internal/infrastructure/kafka"
	"github.com/campushq/course-service/internal/infrastructure/mail"
	"github.com/campushq/course-service/internal/infrastructure/redis"
	"github.com/campushq/course-service/internal/observability"
	core "github.com/campushq/course-service/internal/repository/postgres"
	service "github.com/campushq/course-service/internal/services"
	"github.com/campushq/course-service/internal/token"
	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	shutdown, _ := observability.Setup("course-service")
	defer shutdown(context.Background())

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer db.Close()

	userRepo := core.NewPostgresUserRepository(db)
	courseRepo := core.NewPostgresCourseRepository(db)
	enrollmentRepo := core.NewPostgresEnrollmentRepository(db)
	submissionRepo := core.NewPostgresSubmissionRepository(db)

	redisClient, err := redis.NewClient(cfg.RedisAddr)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	kafkaProducer := kafka.NewProducer(cfg.KafkaBrokers)
	defer kafkaProducer.Close()

	// Token lifecycle: secret and TTLs are read once and immutable from here on.
	secret := []byte(cfg.JWTSecret)
	issuer, err := token.NewIssuer(secret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		log.Fatalf("Invalid token configuration: %v", err)
	}
	validator := token.NewValidator(secret, cfg.ClockSkew)
	refresher := token.NewRefreshCoordinator(validator, issuer)

	authSvc := service.NewAuthService(userRepo, issuer, refresher)
	courseSvc := service.NewCourseService(userRepo, courseRepo, enrollmentRepo, submissionRepo, redisClient, kafkaProducer)

	mailer := mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPassword)
	notifierCtx, stopNotifier := context.WithCancel(context.Background())
	notifier := kafka.NewConsumer(cfg.KafkaBrokers, "notifications", "course-service-notifier", mailer)
	go notifier.Consume(notifierCtx)
	defer notifier.Close()
	defer stopNotifier()

	gate := auth.NewGate(validator, authSvc, cfg.StrictAuthHeader)
	h := handler.NewHandler(authSvc, courseSvc)
	router := api.SetupRouter(h, gate)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
	go func() {
		log.Printf("Starting server on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
