// Package server provides the HTTP REST API for résumé ingestion and
// candidate matching.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/server/middleware"
	"github.com/jonathan/talent-match/internal/server/ratelimit"
	"github.com/jonathan/talent-match/internal/validation"
)

const (
	defaultMaxUploadSize = 10 << 20
	// multipartOverhead is allowed on top of the file size for form fields
	// and boundaries.
	multipartOverhead = 1 << 20
	healthTimeout     = 2 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	ingestor    Ingestor
	matcher     Matcher
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	validate    *validator.Validate
	logger      *zap.Logger
	maxUpload   int64
}

// Config holds server configuration
type Config struct {
	Port          int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxUploadSize int64
}

// Deps are the services the handlers call. RateLimit and Logger are optional.
type Deps struct {
	Store     Store
	Ingestor  Ingestor
	Matcher   Matcher
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig
	RateLimit *ratelimit.Config
	Logger    *zap.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil || deps.Ingestor == nil || deps.Matcher == nil {
		return nil, errors.New("server requires a store, an ingestor and a matcher")
	}
	if deps.JWT == nil || deps.Passwords == nil {
		return nil, errors.New("server requires JWT and password configuration")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.RateLimit == nil {
		deps.RateLimit = ratelimit.LoadConfig(nil)
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = defaultMaxUploadSize
	}

	s := &Server{
		store:       deps.Store,
		ingestor:    deps.Ingestor,
		matcher:     deps.Matcher,
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		jwtService:  NewJWTService(deps.JWT),
		userService: NewUserService(deps.Store, deps.Passwords),
		validate:    validation.New(),
		logger:      deps.Logger,
		maxUpload:   cfg.MaxUploadSize,
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, s.validate, s.logger)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Authentication
	mux.HandleFunc("POST /v1/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", s.authHandler.Login)
	mux.Handle("GET /v1/users/me", protected(s.handleGetMe))
	mux.Handle("PUT /v1/users/me/password", protected(s.handleUpdatePassword))

	// Documents
	mux.Handle("POST /v1/documents", protected(s.handleUploadDocument))
	mux.Handle("GET /v1/documents", protected(s.handleListDocuments))
	mux.Handle("GET /v1/documents/{id}", protected(s.handleGetDocument))
	mux.Handle("DELETE /v1/documents/{id}", protected(s.handleDeleteDocument))
	mux.Handle("POST /v1/documents/{id}/link", protected(s.handleLinkDocument))

	// Candidates
	mux.Handle("POST /v1/candidates", protected(s.handleCreateCandidate))
	mux.Handle("GET /v1/candidates", protected(s.handleListCandidates))
	mux.Handle("GET /v1/candidates/{id}", protected(s.handleGetCandidate))
	mux.Handle("PUT /v1/candidates/{id}", protected(s.handleUpdateCandidate))
	mux.Handle("DELETE /v1/candidates/{id}", protected(s.handleDeleteCandidate))
	mux.Handle("GET /v1/candidates/{id}/documents", protected(s.handleListCandidateDocuments))

	// Matching and search history
	mux.Handle("POST /v1/match", protected(s.handleMatch))
	mux.Handle("GET /v1/queries", protected(s.handleListQueries))
	mux.Handle("GET /v1/queries/{id}", protected(s.handleGetQuery))

	// Companies
	mux.Handle("POST /v1/companies", protected(s.handleCreateCompany))
	mux.Handle("GET /v1/companies", protected(s.handleListCompanies))
	mux.Handle("GET /v1/companies/{id}", protected(s.handleGetCompany))

	// Profiles
	mux.Handle("POST /v1/profiles", protected(s.handleCreateProfile))
	mux.Handle("GET /v1/profiles", protected(s.handleListProfiles))
	mux.Handle("GET /v1/profiles/{id}", protected(s.handleGetProfile))
	mux.Handle("PUT /v1/profiles/{id}", protected(s.handleUpdateProfile))
	mux.Handle("DELETE /v1/profiles/{id}", protected(s.handleDeleteProfile))
	mux.Handle("POST /v1/profiles/{id}/skills", protected(s.handleAddProfileSkill))
	mux.Handle("GET /v1/profiles/{id}/candidates", protected(s.handleListProfileCandidates))
	mux.Handle("PUT /v1/profiles/{id}/candidates/{candidateID}", protected(s.handleAddProfileCandidate))
	mux.Handle("DELETE /v1/profiles/{id}/candidates/{candidateID}", protected(s.handleRemoveProfileCandidate))

	return s.withRateLimit(middleware.Logging(s.logger)(s.withCORS(mux)))
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects requests over the client's limit with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userID returns the authenticated user, writing a 401 when there is none.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses the {id} path value, writing a 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// extractClientID uses the IP from RemoteAddr. Forwarded headers are ignored
// since they can be set by any client.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	jsonResponse(w, http.StatusTooManyRequests, response)
}
