package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/safegram/config"
	"github.com/spacesedan/safegram/internal/auth"
	"github.com/spacesedan/safegram/internal/clients"
	"github.com/spacesedan/safegram/internal/db"
	"github.com/spacesedan/safegram/internal/logging"
	"github.com/spacesedan/safegram/internal/moderation"
	"github.com/spacesedan/safegram/internal/monitoring"
	"github.com/spacesedan/safegram/internal/server"
	"github.com/spacesedan/safegram/internal/submission"
	"github.com/spacesedan/safegram/internal/uploads"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pg := clients.InitPostgres(ctx)
	defer clients.ClosePostgres()
	clients.InitValkey()
	defer clients.CloseValkey()

	caps := db.ProbeCapabilities(ctx, pg.Pool)
	slog.Info("[Main] Comment schema capabilities resolved",
		slog.Bool("warning_flag", caps.SupportsWarningFlag),
		slog.Bool("moderation_notes", caps.SupportsModerationNotes))

	store := db.NewStore(pg.Pool, caps)
	audit := db.NewAuditLogger(clients.GetDynamoDBClient())
	analyzer := moderation.NewContentAnalyzer(audit)
	assembler := moderation.NewContextAssembler(store)
	orchestrator := submission.NewOrchestrator(store, assembler, analyzer)
	identity := auth.NewProvider(clients.GetValkeyClient(), store)
	uploader := uploads.NewUploader(clients.GetS3Client(), os.Getenv("UPLOAD_BUCKET"))

	storeHealthy := &atomic.Bool{}
	classifierHealthy := &atomic.Bool{}
	storeHealthy.Store(true)
	classifierHealthy.Store(true)
	go monitoring.MonitorStoreHealth(ctx, pg.Pool, storeHealthy)
	go monitoring.MonitorClassifierHealth(ctx, classifierHealthy)

	srv := server.New(orchestrator, store, identity, uploader, storeHealthy, classifierHealthy)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("[Main] Shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Main] Shutdown failed", slog.String("error", err.Error()))
		}
	}()

	slog.Info("[Main] Listening", slog.String("addr", addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("[Main] Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
