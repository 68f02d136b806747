package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"moviecatalog/internal/ratelimit"
	"moviecatalog/internal/util"
	"moviecatalog/pkg/schema"
	"moviecatalog/pkg/store"
	"moviecatalog/services/catalog/internal/app"
)

const maxBodyBytes = 1 << 20

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                *app.App
	AllowedOrigins     []string
	TrustProxyHeaders  bool
	RateLimitPerMinute int
	// Redis, when set, backs the rate limiter so replicas share one quota.
	Redis *redis.Client
}

// Server exposes HTTP endpoints for the movie catalog.
type Server struct {
	app    *app.App
	router chi.Router
	cors   func(http.Handler) http.Handler
	limit  func(http.Handler) http.Handler
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("server: app is required")
	}
	s := &Server{
		app:    cfg.App,
		router: chi.NewRouter(),
		cors:   util.WithCORS(cfg.AllowedOrigins),
		limit:  func(next http.Handler) http.Handler { return next },
	}
	if cfg.RateLimitPerMinute > 0 {
		if cfg.Redis != nil {
			limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.Redis, "moviecatalog:ratelimit", cfg.RateLimitPerMinute, time.Minute)
			if err != nil {
				return nil, err
			}
			s.limit = limiter.Middleware(handleRateLimited)
		} else {
			s.limit = ratelimit.InProcess(cfg.RateLimitPerMinute, time.Minute, handleRateLimited)
		}
	}
	if cfg.TrustProxyHeaders {
		s.router.Use(chimiddleware.RealIP)
	}
	s.router.Use(chimiddleware.Recoverer)
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("catalog", util.WithSecurityHeaders(s.cors(s.router))))
}

func (s *Server) routes() {
	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/movies", func(r chi.Router) {
		r.Get("/", s.handleListMovies)
		r.Get("/{id}", s.handleGetMovie)
		r.Group(func(r chi.Router) {
			r.Use(s.limit)
			r.Post("/", s.handleCreateMovie)
			r.Patch("/{id}", s.handleUpdateMovie)
			r.Delete("/{id}", s.handleDeleteMovie)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	genre := strings.TrimSpace(r.URL.Query().Get("genre"))
	writeJSON(w, http.StatusOK, s.app.ListMovies(genre))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := s.app.GetMovie(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	movie, err := s.app.CreateMovie(r.Context(), body)
	if err != nil {
		writeAppError(w, err, http.StatusBadRequest)
		return
	}
	w.Header().Set("Location", "/movies/"+movie.ID)
	writeJSON(w, http.StatusCreated, movie)
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	movie, err := s.app.UpdateMovie(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		writeAppError(w, err, http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DeleteMovie(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Movie deleted"})
}

func handleRateLimited(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return body, true
}

// writeAppError maps app errors to responses. validationStatus differs
// between create (400) and partial update (422).
func writeAppError(w http.ResponseWriter, err error, validationStatus int) {
	var ferrs *schema.FieldErrors
	switch {
	case errors.As(err, &ferrs):
		writeJSON(w, validationStatus, validationResponse{
			Error:     "validation failed",
			Code:      "MOVIE_VALIDATION_FAILED",
			Fields:    ferrs.Fields(),
			RequestID: requestID(w),
		})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "movie not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type validationResponse struct {
	Error     string              `json:"error"`
	Code      string              `json:"code"`
	Fields    []schema.FieldError `json:"fields"`
	RequestID string              `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	resp := errorResponse{
		Error:     msg,
		Code:      errorCode(status, msg),
		RequestID: requestID(w),
	}
	if msg == "movie not found" {
		resp.Message = "Movie not found"
	}
	writeJSON(w, status, resp)
}

func requestID(w http.ResponseWriter) string {
	return strings.TrimSpace(w.Header().Get("X-Request-Id"))
}

func errorCode(status int, msg string) string {
	switch strings.ToLower(strings.TrimSpace(msg)) {
	case "movie not found":
		return "MOVIE_NOT_FOUND"
	case "request body too large":
		return "MOVIE_BODY_TOO_LARGE"
	case "invalid request body":
		return "MOVIE_INVALID_REQUEST"
	case "rate limit exceeded":
		return "SYSTEM_RATE_LIMITED"
	case "method not allowed":
		return "SYSTEM_METHOD_NOT_ALLOWED"
	case "not found":
		return "SYSTEM_NOT_FOUND"
	}

	switch status {
	case http.StatusBadRequest:
		return "MOVIE_INVALID_REQUEST"
	case http.StatusNotFound:
		return "SYSTEM_NOT_FOUND"
	default:
		if status >= http.StatusInternalServerError {
			return "SYSTEM_INTERNAL_ERROR"
		}
		return "REQUEST_ERROR"
	}
}
