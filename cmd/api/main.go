package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/zombar/categorizer"
	"github.com/zombar/categorizer/api"
	"github.com/zombar/categorizer/db"
	"github.com/zombar/categorizer/metrics"
	"github.com/zombar/categorizer/storage"
	"github.com/zombar/categorizer/tracing"
)

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	// Setup structured logging with JSON output; LOG_FILE adds a rotating
	// file alongside stdout
	var logOut io.Writer = os.Stdout
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		logOut = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("categorizer service initializing", "version", "1.0.0")

	// Initialize tracing
	tp, err := tracing.InitTracer("categorizer")
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
		logger.Info("tracing initialized successfully")
	}

	// Default values
	defaultPort := getEnv("PORT", "8080")
	defaultStoragePath := getEnv("STORAGE_BASE_PATH", "./storage")
	defaultAssistantURL := getEnv("ASSISTANT_URL", "")
	defaultFetchTimeout := getEnv("FETCH_TIMEOUT", "30s")
	defaultTokenExpiry := getEnv("TOKEN_EXPIRY", "24h")

	fetchTimeout, err := time.ParseDuration(defaultFetchTimeout)
	if err != nil {
		logger.Warn("invalid FETCH_TIMEOUT value, using default",
			"provided", defaultFetchTimeout,
			"default", "30s",
			"error", err,
		)
		fetchTimeout = 30 * time.Second
	}

	tokenExpiry, err := time.ParseDuration(defaultTokenExpiry)
	if err != nil {
		logger.Warn("invalid TOKEN_EXPIRY value, using default",
			"provided", defaultTokenExpiry,
			"default", "24h",
			"error", err,
		)
		tokenExpiry = 24 * time.Hour
	}

	// Command-line flags (override environment variables)
	port := flag.String("port", defaultPort, "Server port")
	storagePath := flag.String("storage-path", defaultStoragePath, "Base path for snapshot storage")
	assistantURL := flag.String("assistant-url", defaultAssistantURL, "Chat assistant base URL (empty disables assistant replies)")
	disableCORS := flag.Bool("disable-cors", false, "Disable CORS")
	flag.Parse()

	// PostgreSQL database configuration (required)
	dbHost := getEnv("DB_HOST", "")
	if dbHost == "" {
		logger.Error("DB_HOST environment variable is required")
		os.Exit(1)
	}

	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "categorizer")
	dbPassword := getEnv("DB_PASSWORD", "categorizer_dev_pass")
	dbName := getEnv("DB_NAME", "categorizer")

	dbConfig := db.Config{
		DSN: fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort, dbUser, dbPassword, dbName),
	}
	logger.Info("using PostgreSQL database", "host", dbHost, "port", dbPort, "database", dbName)

	// Token signing secret (required)
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Optional S3 snapshot backend; selected when S3_BUCKET is set
	var s3Config *storage.S3Config
	if bucket := getEnv("S3_BUCKET", ""); bucket != "" {
		usePathStyle, _ := strconv.ParseBool(getEnv("S3_USE_PATH_STYLE", "false"))
		s3Config = &storage.S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          bucket,
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    usePathStyle,
		}
		logger.Info("using S3 snapshot storage", "bucket", bucket, "region", s3Config.Region)
	}

	engineConfig := categorizer.DefaultConfig()
	engineConfig.HTTPTimeout = fetchTimeout

	// Create server configuration
	config := api.Config{
		Addr:          ":" + *port,
		DBConfig:      dbConfig,
		EngineConfig:  engineConfig,
		StorageConfig: storage.Config{BasePath: *storagePath},
		S3Config:      s3Config,
		AssistantURL:  *assistantURL,
		JWTSecret:     jwtSecret,
		TokenExpiry:   tokenExpiry,
		CORSEnabled:   !*disableCORS,
	}

	// Create server
	server, err := api.NewServer(config)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Keep the stored-website gauge current
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			count, err := server.DB().CountWebsites()
			if err != nil {
				continue
			}
			metrics.WebsitesTotal.Set(float64(count))
		}
	}()

	// Start server in a goroutine
	go func() {
		logger.Info("categorizer service starting",
			"port", *port,
			"database_host", dbHost,
			"database_name", dbName,
			"storage_path", *storagePath,
			"assistant_url", *assistantURL,
			"fetch_timeout", fetchTimeout,
		)

		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
