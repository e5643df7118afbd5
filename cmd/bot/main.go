// Entry point for the attendance bot
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance.bot/internal/api"
	"attendance.bot/internal/bot"
	"attendance.bot/internal/config"
	"attendance.bot/internal/core"
	"attendance.bot/internal/ports/repository"
	"attendance.bot/pkg/database"
	"attendance.bot/pkg/logger"
	"attendance.bot/pkg/telemetry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	// Configure structured logging
	logger.Setup(cfg.IsLocalDev)

	// Configure OpenTelemetry Tracing
	shutdownTracer, err := telemetry.InitTracer("attendance-bot", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// DB connection
	db, err := database.NewInstrumentedConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()
	log.Info().Msg("Successfully connected to the database.")

	// Office calendar
	cal, err := core.NewCalendar(cfg.OfficeTimezone)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid office timezone")
	}

	// Initialize dependencies
	repo := repository.NewAttendanceRepository(db)
	marking := core.NewMarkingService(repo, cal, cfg.GeofenceRadiusM)
	reports := core.NewReportService(repo, cal)

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the Bot API")
	}
	log.Info().Str("account", botAPI.Self.UserName).Msg("Authorized on bot account")

	sender := bot.NewTelegramSender(botAPI)
	chatBot := bot.New(sender, repo, marking, reports, cal, cfg.GeofenceRadiusM)

	// Ops server: health and report downloads
	router := api.NewRouter(reports, cal)

	// Middleware to inject logger with trace ID
	loggerMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.EnrichContextWithLogger(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.OpsPort,
		Handler: otelhttp.NewHandler(loggerMiddleware(router), "ops"),
	}

	go func() {
		log.Info().Str("port", cfg.OpsPort).Msg("Ops server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Long-poll loop. Each update is one logical unit of work; updates are
	// handled in order, so one chat's events never interleave.
	ctx, cancel := context.WithCancel(context.Background())

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := botAPI.GetUpdatesChan(updateConfig)

	go func() {
		log.Info().Msg("Bot started. Polling for updates...")
		for update := range updates {
			chatBot.HandleUpdate(ctx, update)
		}
	}()

	// Wait for interrupt signal to gracefully shut down.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down...")

	botAPI.StopReceivingUpdates()
	cancel()

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Bot exiting")
}
