package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pdf_tools/api"
	"pdf_tools/artifact"
	"pdf_tools/pdf"
	"pdf_tools/service"
)

const (
	// DefaultMaxFileSize is the default maximum size of one uploaded file (50MB)
	DefaultMaxFileSize = 50 * 1024 * 1024

	// DefaultPort is the default server port
	DefaultPort = "8080"

	// DefaultTempMaxAge is how old a temp entry must be before the sweeper removes it
	DefaultTempMaxAge = time.Hour

	// MinTempMaxAge keeps the sweeper away from artifacts a response may still be writing
	MinTempMaxAge = ServerWriteTimeout

	// ServerReadTimeout is the HTTP server read timeout
	ServerReadTimeout = 60 * time.Second

	// ServerWriteTimeout is the HTTP server write timeout; large merges block the handler
	ServerWriteTimeout = 5 * time.Minute

	// ServerIdleTimeout is the HTTP server idle timeout
	ServerIdleTimeout = 60 * time.Second

	// GracefulShutdownTimeout is the timeout for graceful shutdown
	GracefulShutdownTimeout = 10 * time.Second
)

func main() {
	logger, err := newLogger(getEnv("LOG_FORMAT", "json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	config, err := loadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	manager, err := artifact.NewManager(config.TempDir, logger.Named("artifact"))
	if err != nil {
		logger.Fatal("failed to prepare temp directory", zap.Error(err))
	}
	svc := service.New(manager, config.SplitDefault, logger.Named("pdf"))

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(config, svc, logger.Named("http"))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", config.Port),
		Handler:      r,
		ReadTimeout:  ServerReadTimeout,
		WriteTimeout: ServerWriteTimeout,
		IdleTimeout:  ServerIdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.SweepInterval > 0 {
		go manager.RunSweeper(ctx, config.SweepInterval, config.SweepMaxAge)
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.Int64("max_file_size", config.MaxFileSize),
			zap.String("temp_dir", config.TempDir),
			zap.Strings("cors_origins", config.CORSOrigins),
			zap.String("split_default", string(config.SplitDefault)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server exited gracefully")
}

func loadConfig() (*api.Config, error) {
	splitDefault, err := pdf.ParseSplitDefault(getEnv("SPLIT_DEFAULT", string(pdf.SplitDefaultAll)))
	if err != nil {
		return nil, err
	}

	return &api.Config{
		Port:          getEnv("PORT", DefaultPort),
		MaxFileSize:   getEnvInt64("MAX_FILE_SIZE", DefaultMaxFileSize),
		TempDir:       getEnv("TEMP_DIR", filepath.Join(os.TempDir(), "pdf_tools")),
		CORSOrigins:   getEnvList("CORS_ORIGINS", []string{api.DefaultCORSOrigin}),
		SplitDefault:  splitDefault,
		SweepInterval: getEnvDuration("TEMP_SWEEP_INTERVAL", 0),
		SweepMaxAge:   max(getEnvDuration("TEMP_MAX_AGE", DefaultTempMaxAge), MinTempMaxAge),
	}, nil
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	var list []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
