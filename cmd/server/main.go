package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"node-manager/internal/config"
	"node-manager/internal/handler"
	"node-manager/internal/pkg/logger"
	"node-manager/internal/pkg/runner"
	"node-manager/internal/pkg/store"
	"node-manager/internal/router"
	"node-manager/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "Path to an optional config.yaml")
	flag.Parse()

	// Load .env if present
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// Logger
	appLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer appLogger.Sync()
	zap.ReplaceGlobals(appLogger.Logger)

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		appLogger.Warn("Failed to load .env file, using environment only", zap.Error(envErr))
	}

	// Services
	cmdRunner := runner.New(runner.Config{
		Shell:   cfg.Node.Shell,
		Dir:     cfg.Node.WorkDir,
		Env:     cfg.Node.Env,
		Timeout: cfg.CommandTimeout(),
	}, appLogger)
	fileStore := store.NewFileStore(cfg.Store.DataDir, cfg.Store.CredentialFile, cfg.Store.SetupMarkerFile)
	nodeService := service.NewNodeService(cmdRunner, fileStore, service.Commands{
		Status:       cfg.Node.StatusCommand,
		Setup:        cfg.Node.SetupCommand,
		Restart:      cfg.Node.RestartCommand,
		SetupTimeout: cfg.SetupTimeout(),
	}, appLogger)

	// Handlers
	nodeHandler := handler.NewNodeHandler(nodeService)

	// Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Router
	r := router.NewEngine(cfg.CORS, appLogger, nodeHandler)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout(),
		WriteTimeout:      cfg.WriteTimeout(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info("Starting server",
			zap.String("address", srv.Addr),
			zap.String("data_dir", cfg.Store.DataDir),
			zap.Bool("cors", cfg.CORS.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
}
