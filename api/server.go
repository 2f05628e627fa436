// Package api exposes the HTTP surface: website processing and queries,
// per-user chats, and account signup/login. Handlers stay thin; semantics
// live in the categorizer engine and the stores.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zombar/categorizer"
	"github.com/zombar/categorizer/assistant"
	"github.com/zombar/categorizer/auth"
	"github.com/zombar/categorizer/db"
	"github.com/zombar/categorizer/metrics"
	"github.com/zombar/categorizer/models"
	"github.com/zombar/categorizer/storage"
)

// Store is the persistence surface the handlers need beyond website
// processing.
type Store interface {
	CountWebsites() (int, error)
	CreateUser(username, email, passwordHash string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	CreateChat(userID, websiteURL string) (*models.Chat, error)
	GetChat(chatID, userID string) (*models.Chat, error)
	ListChats(userID string) ([]*models.Chat, error)
	AppendMessage(chatID, userID string, role models.MessageRole, content string) (*models.Message, error)
	RenameChat(chatID, userID, newTitle string) (*models.Chat, error)
	DeleteChat(chatID, userID string) error
	ClearChats(userID string) error
}

// WebsiteService runs and queries website processing.
type WebsiteService interface {
	Process(ctx context.Context, url string) (*models.Website, error)
	Status(url string) (*models.Website, error)
	List() ([]*models.WebsiteSummary, error)
	ListByIndustry(industry string) ([]*models.Website, error)
	ListByType(websiteType string) ([]*models.Website, error)
}

// Assistant produces chat replies and loads processed websites into the QA
// service's answering context; nil disables both.
type Assistant interface {
	Ask(ctx context.Context, chatID, websiteURL, question string) (string, error)
	Load(ctx context.Context, websiteURL string) (string, error)
}

// Registry lists and prunes previously processed URLs; nil disables the
// registry endpoints' content. Remove reports the removed entry's collection
// name so the stored snapshot can be cleaned up too.
type Registry interface {
	List() []models.RegistryEntry
	Remove(url string) (string, bool, error)
}

// Snapshots deletes stored page snapshots; nil skips cleanup on registry
// removal.
type Snapshots interface {
	DeleteSnapshot(ctx context.Context, key string) error
}

// Server represents the API server
type Server struct {
	store     Store
	websites  WebsiteService
	assistant Assistant
	registry  Registry
	snapshots Snapshots

	database       *db.DB // owned when built by NewServer; closed on Shutdown
	jwtSecret      []byte
	tokenExpiry    time.Duration
	processTimeout time.Duration
	addr           string
	server         *http.Server
	mux            *http.ServeMux
	corsEnabled    bool
}

// Config contains server configuration
type Config struct {
	Addr             string
	DBConfig         db.Config
	EngineConfig     categorizer.Config
	StorageConfig    storage.Config
	S3Config         *storage.S3Config // non-nil selects the S3 snapshot backend
	RegistryPath     string
	AssistantURL     string
	AssistantTimeout time.Duration
	JWTSecret        string
	TokenExpiry      time.Duration
	ProcessTimeout   time.Duration
	CORSEnabled      bool
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:             ":8080",
		EngineConfig:     categorizer.DefaultConfig(),
		StorageConfig:    storage.DefaultConfig(),
		AssistantTimeout: 60 * time.Second,
		TokenExpiry:      24 * time.Hour,
		ProcessTimeout:   5 * time.Minute,
		CORSEnabled:      true,
	}
}

// NewServer creates a fully wired API server
func NewServer(config Config) (*Server, error) {
	if len(config.JWTSecret) < auth.MinSecretLen {
		return nil, fmt.Errorf("JWT secret must be at least %d bytes", auth.MinSecretLen)
	}

	database, err := db.New(config.DBConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var snapshots interface {
		categorizer.SnapshotStore
		Snapshots
	}
	if config.S3Config != nil {
		s3Store, err := storage.NewS3Storage(context.Background(), *config.S3Config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		snapshots = s3Store
	} else {
		fsStore, err := storage.New(config.StorageConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		snapshots = fsStore
	}

	registryPath := config.RegistryPath
	if registryPath == "" {
		registryPath = filepath.Join(config.StorageConfig.BasePath, "registry.json")
	}
	registry, err := storage.NewRegistry(registryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize registry: %w", err)
	}

	engine := categorizer.New(config.EngineConfig)
	processor := categorizer.NewProcessor(engine, database, snapshots, registry)

	var qa Assistant
	if config.AssistantURL != "" {
		qa = assistant.NewClient(config.AssistantURL, config.AssistantTimeout)
	}

	s := newServer(database, processor, qa, registry, snapshots, config)
	s.database = database
	return s, nil
}

// newServer wires a Server from its collaborators; tests use it directly
// with fakes.
func newServer(store Store, websites WebsiteService, qa Assistant, registry Registry, snapshots Snapshots, config Config) *Server {
	if config.TokenExpiry == 0 {
		config.TokenExpiry = DefaultConfig().TokenExpiry
	}
	if config.ProcessTimeout == 0 {
		config.ProcessTimeout = DefaultConfig().ProcessTimeout
	}

	s := &Server{
		store:          store,
		websites:       websites,
		assistant:      qa,
		registry:       registry,
		snapshots:      snapshots,
		jwtSecret:      []byte(config.JWTSecret),
		tokenExpiry:    config.TokenExpiry,
		processTimeout: config.ProcessTimeout,
		addr:           config.Addr,
		mux:            http.NewServeMux(),
		corsEnabled:    config.CORSEnabled,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.middleware(s.mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())

	s.mux.HandleFunc("/api/auth/signup", s.handleSignup)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/me", s.requireAuth(s.handleMe))

	s.mux.HandleFunc("/api/website/process", s.handleWebsiteProcess)
	s.mux.HandleFunc("/api/website/status/", s.handleWebsiteStatus) // Handles /api/website/status/{url}
	s.mux.HandleFunc("/api/website/list", s.handleWebsiteList)
	s.mux.HandleFunc("/api/website/industry/", s.handleWebsiteByIndustry)
	s.mux.HandleFunc("/api/website/type/", s.handleWebsiteByType)
	s.mux.HandleFunc("/api/website/previous", s.handlePreviousWebsites)
	s.mux.HandleFunc("/api/website/remove", s.handleRemoveWebsite)
	s.mux.HandleFunc("/api/website/load", s.requireAuth(s.handleLoadWebsite))

	s.mux.HandleFunc("/api/chat", s.requireAuth(s.handleChatCollection))
	s.mux.HandleFunc("/api/chat/", s.requireAuth(s.handleChatItem)) // Handles /api/chat/{id}[/...]
}

// Start starts the API server
func (s *Server) Start() error {
	slog.Info("starting API server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down API server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	if s.database != nil {
		return s.database.Close()
	}
	return nil
}

// DB returns the owned database, when built by NewServer
func (s *Server) DB() *db.DB {
	return s.database
}

// middleware applies CORS, request logging and request metrics to all routes
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.corsEnabled {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		start := time.Now()
		next.ServeHTTP(w, r)

		if r.URL.Path != "/health" && r.URL.Path != "/metrics" {
			elapsed := time.Since(start)
			slog.Info("request", "method", r.Method, "path", r.URL.Path, "duration", elapsed)
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, routeLabel(r.URL.Path)).Observe(elapsed.Seconds())
		}
	})
}

// routeLabel collapses parameterized paths to keep metric cardinality low
func routeLabel(path string) string {
	for _, prefix := range []string{
		"/api/website/status/",
		"/api/website/industry/",
		"/api/website/type/",
		"/api/chat/",
	} {
		if strings.HasPrefix(path, prefix) {
			return prefix + "*"
		}
	}
	return path
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	count, err := s.store.CountWebsites()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get count")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"websites": count,
		"time":     time.Now(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error envelope
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
