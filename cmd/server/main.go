package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"golang.org/x/crypto/bcrypt"

	"dayplanner/config"
	_ "dayplanner/docs"
	authadapter "dayplanner/internal/adapters/auth"
	"dayplanner/internal/adapters/email"
	"dayplanner/internal/adapters/llm"
	httpdelivery "dayplanner/internal/delivery/http"
	"dayplanner/internal/delivery/http/controllers"
	"dayplanner/internal/delivery/http/middleware"
	"dayplanner/internal/domain"
	"dayplanner/internal/repository/postgres"
	"dayplanner/internal/services"
)

const serviceTimeout = 10 * time.Second

// disabledCompleter stands in for the chat model when no API key is configured.
type disabledCompleter struct{}

func (disabledCompleter) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return "", errors.New("assistant is not configured: set GROQ_API_KEY")
}

// @title Day Planner API
// @version 1.0
// @description Personal planner backend: calendar events, tasks, habits, reminders, free-time search, and an assistant.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	habitRepo := postgres.NewHabitRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)

	// Adapters
	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	issuer, verifier := authadapter.NewJWTCodec(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFrom,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.AWSInsecureTLS,
		},
	})
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	var completer domain.ChatCompleter = disabledCompleter{}
	if cfg.GroqAPIKey != "" {
		completer, err = llm.NewClient(nil, llm.Config{APIKey: cfg.GroqAPIKey, Model: cfg.GroqModel})
		if err != nil {
			return fmt.Errorf("create llm client: %w", err)
		}
	} else {
		logger.Warn("GROQ_API_KEY is not set, assistant endpoints are disabled")
	}

	presets, err := config.LoadPresets(cfg.PresetsPath)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}

	// Services
	notifier := services.NewNotificationService(mailer, email.NewTemplateRenderer())
	authSvc := services.NewAuthService(userRepo, hasher, issuer, cfg.TokenExpiry, serviceTimeout)
	eventSvc := services.NewEventService(eventRepo, serviceTimeout)
	taskSvc := services.NewTaskService(taskRepo, serviceTimeout)
	habitSvc := services.NewHabitService(habitRepo, serviceTimeout)
	reminderSvc := services.NewReminderService(reminderRepo, userRepo, notifier, loc, logger, serviceTimeout)
	scheduleSvc := services.NewScheduleService(eventSvc, eventRepo, taskRepo, presets, loc, serviceTimeout)
	dashboardSvc := services.NewDashboardService(eventSvc, taskRepo, habitRepo, reminderRepo, loc, serviceTimeout)
	assistantSvc := services.NewAssistantService(completer, eventSvc, taskSvc, habitSvc, reminderSvc, scheduleSvc, loc, serviceTimeout)

	// HTTP
	requireAuth := middleware.RequireAuth(verifier, logger)
	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:      controllers.NewAuthController(logger, authSvc),
		Event:     controllers.NewEventController(logger, eventSvc, loc),
		Task:      controllers.NewTaskController(logger, taskSvc),
		Habit:     controllers.NewHabitController(logger, habitSvc, loc),
		Reminder:  controllers.NewReminderController(logger, reminderSvc),
		Schedule:  controllers.NewScheduleController(logger, scheduleSvc, loc),
		Dashboard: controllers.NewDashboardController(logger, dashboardSvc, loc),
		Assistant: controllers.NewAssistantController(logger, assistantSvc),
	}, requireAuth)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	// Reminder dispatch job
	scheduler := cron.New(cron.WithLocation(loc))
	if _, err := scheduler.AddFunc(cfg.ReminderCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
		defer cancel()
		n, err := reminderSvc.DispatchDue(ctx, time.Now().In(loc))
		if err != nil {
			logger.Error("reminder dispatch failed", "err", err)
			return
		}
		if n > 0 {
			logger.Info("reminders dispatched", "count", n)
		}
	}); err != nil {
		return fmt.Errorf("schedule reminder job: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
