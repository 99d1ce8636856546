package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-engine/internal/config"
	"github.com/xavierca1/lead-engine/internal/entity"
	"github.com/xavierca1/lead-engine/internal/infra/database"
	"github.com/xavierca1/lead-engine/internal/infra/http/handlers"
	"github.com/xavierca1/lead-engine/internal/infra/integration/kommo"
	"github.com/xavierca1/lead-engine/internal/infra/integration/llm"
	"github.com/xavierca1/lead-engine/internal/infra/mail"
	"github.com/xavierca1/lead-engine/internal/infra/queue"
	"github.com/xavierca1/lead-engine/internal/logging"
	"github.com/xavierca1/lead-engine/internal/usecase"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lead-engine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Store
	var (
		repo   entity.LeadRepositoryInterface
		pinger handlers.Pinger
	)
	if cfg.DatabaseURL != "" {
		db, err := database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		pgRepo := database.NewLeadRepository(db)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			return err
		}
		repo, pinger = pgRepo, db
		logger.Info("using postgres lead store")
	} else {
		repo = database.NewMemoryLeadRepository()
		logger.Info("using in-memory lead store")
	}

	// 2. Text generation
	llmClient, err := llm.NewClient(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
	}, logger)
	if err != nil {
		return err
	}
	var generator usecase.TextGenerator
	if llmClient.Configured() {
		generator = llmClient
		logger.Info("outreach generation enabled", zap.String("provider", llmClient.Name()))
	} else {
		logger.Warn("LLM_API_KEY not set, outreach will use templates")
	}

	// 3. Events and alerts
	var (
		publisher usecase.LeadEventPublisher
		broker    handlers.BrokerStatus
	)
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()

		publisher = meteredPublisher{next: queue.NewProducer(rabbitMQ.Ch)}
		broker = rabbitMQ

		var alerts alertFanout
		if cfg.MailConfigured() {
			sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.From, cfg.Mail.AlertTo)
			alerts = append(alerts, meteredAlerts{service: "smtp", next: sender})
		}
		if cfg.KommoConfigured() {
			crm := kommo.NewClient(cfg.Kommo.BaseURL, cfg.Kommo.APIToken, logger)
			alerts = append(alerts, meteredAlerts{service: "kommo", next: crm})
		}

		if len(alerts) > 0 {
			worker := queue.NewWorker(rabbitMQ.Ch, alerts, logger)
			go func() {
				if err := worker.Start(ctx, queue.QueueName); err != nil {
					logger.Error("alert worker exited", zap.Error(err))
				}
			}()
		} else {
			logger.Info("no alert channel configured, hot lead worker disabled")
		}
	}

	// 4. UseCases
	rules := entity.DefaultScoringRules()
	outreach := usecase.NewOutreachGenerator(generator, cfg.LLM.Timeout, logger)

	uploadUC := usecase.NewUploadLeadsUseCase(repo, rules, publisher, logger)
	listUC := usecase.NewListLeadsUseCase(repo)
	detailUC := usecase.NewGetLeadDetailUseCase(repo, outreach)
	clearUC := usecase.NewClearLeadsUseCase(repo, logger)
	dashboardUC := usecase.NewGetDashboardUseCase(repo)

	// 5. Handlers
	router := newRouter(routerDeps{
		Leads:          handlers.NewLeadHandler(uploadUC, listUC, detailUC, clearUC, cfg.MaxUploadBytes, logger),
		Dashboard:      handlers.NewDashboardHandler(dashboardUC, logger),
		Health:         handlers.NewHealthHandler(pinger, broker, generator != nil, version),
		DetailLimiter:  handlers.NewRateLimiter(ctx, cfg.RateLimit.Requests, cfg.RateLimit.Window),
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
