package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"player-economy/internal/command"
	"player-economy/internal/config"
	"player-economy/internal/handler"
	"player-economy/internal/ledger"
	"player-economy/internal/lock"
	"player-economy/internal/plugin"
	"player-economy/internal/world"
)

// Server represents the HTTP server
type Server struct {
	router  *mux.Router
	server  *http.Server
	economy *plugin.Economy
	world   *world.World
	redis   *redis.Client
	logger  *slog.Logger
	port    string
}

// NewServer builds the economy plugin on top of an in-process world and
// exposes it over HTTP. A database that cannot be opened does not fail
// construction; /health reports the plugin as detached instead.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	ctx := context.Background()

	locker, redisClient, err := newLocker(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	w := world.New(logger)
	dispatcher := command.NewDispatcher(w, logger)
	economy := plugin.New(ledger.New(locker, logger), dispatcher, w, plugin.Options{
		Database:       cfg.Database,
		DefaultBalance: cfg.Economy.DefaultBalance,
	}, logger)

	if err := economy.OnInitialize(ctx); err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, err
	}
	economy.OnStartUp()

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(economy)
	commandHandler := handler.NewCommandHandler(dispatcher, w, world.Console)
	worldHandler := handler.NewWorldHandler(w, cfg.Economy.IsOperator)

	// Setup router
	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))

	// Command routes
	router.HandleFunc("/commands", commandHandler.Execute).Methods("POST")

	// Account routes
	router.HandleFunc("/accounts", accountHandler.ListAccounts).Methods("GET")
	router.HandleFunc("/accounts/{username}", accountHandler.GetAccount).Methods("GET")
	router.HandleFunc("/accounts/{username}", accountHandler.SetBalance).Methods("PUT")
	router.HandleFunc("/accounts/{username}", accountHandler.HasAccount).Methods("HEAD")

	// World routes
	router.HandleFunc("/players", worldHandler.Join).Methods("POST")
	router.HandleFunc("/players/{username}", worldHandler.Leave).Methods("DELETE")
	router.HandleFunc("/players/{username}/messages", worldHandler.Messages).Methods("GET")
	router.HandleFunc("/entities", worldHandler.Spawn).Methods("POST")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		status := "healthy"
		if !economy.Attached() {
			status = "detached"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    status,
			"plugin":    plugin.Name,
			"version":   plugin.Version,
			"attached":  economy.Attached(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	return &Server{
		router:  router,
		economy: economy,
		world:   w,
		redis:   redisClient,
		logger:  logger,
	}, nil
}

func newLocker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (lock.Locker, *redis.Client, error) {
	if cfg.Lock.Backend != config.LockBackendRedis {
		return lock.NewKeyedMutex(), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}

	logger.Info("Using redis account locks", "addr", cfg.Redis.Addr)
	return lock.NewRedisLocker(client, cfg.Lock.TTL, cfg.Lock.RetryInterval, cfg.Lock.MaxRetries, logger), client, nil
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			// Create response wrapper to capture status code
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration", time.Since(start),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port string) (string, error) {
	// Create listener first to get actual port
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return "", err
	}

	addr := listener.Addr().(*net.TCPAddr)
	s.port = strconv.Itoa(addr.Port)

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server", "port", s.port)

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Server failed to start", "error", err)
		}
	}()

	return s.port, nil
}

// Stop drains HTTP traffic, then shuts the plugin down and releases the
// lock backend.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	var errs []error
	if s.server != nil {
		errs = append(errs, s.server.Shutdown(ctx))
	}
	errs = append(errs, s.economy.OnShutDown(ctx))
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	return errors.Join(errs...)
}

// GetPort returns the port the server is listening on
func (s *Server) GetPort() string {
	return s.port
}

// GetBaseURL returns the base URL for the server
func (s *Server) GetBaseURL() string {
	return "http://localhost:" + s.port
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *mux.Router {
	return s.router
}

// Economy returns the running plugin.
func (s *Server) Economy() *plugin.Economy {
	return s.economy
}

// World returns the in-process host the server drives.
func (s *Server) World() *world.World {
	return s.world
}

// StartServer starts the server with the given configuration
func StartServer(cfg *config.Config) (*Server, string, error) {
	var logger *slog.Logger
	if cfg.Server.Port == "0" {
		// Test environment - use discard logger
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	}

	server, err := NewServer(cfg, logger)
	if err != nil {
		return nil, "", err
	}

	port, err := server.Start(cfg.Server.Port)
	if err != nil {
		server.Stop(context.Background())
		return nil, "", err
	}

	return server, port, nil
}
