package web

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/galder-dev/dogchat/internal/photostore"
	"github.com/galder-dev/dogchat/internal/ratelimit"
	"github.com/galder-dev/dogchat/internal/service"
)

type Server struct {
	service    *service.ChatService
	photoStore photostore.PhotoStore
	limiter    ratelimit.Limiter
	mux        *http.ServeMux
	logger     *slog.Logger
}

func NewServer(svc *service.ChatService, ps photostore.PhotoStore, limiter ratelimit.Limiter, logger *slog.Logger) *Server {
	s := &Server{
		service:    svc,
		photoStore: ps,
		limiter:    limiter,
		mux:        http.NewServeMux(),
		logger:     logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// Chat flows are rate limited per client; everything else is not.
	s.mux.Handle("POST /api/chat/question", s.rateLimited(http.HandlerFunc(s.handleAskQuestion)))
	s.mux.Handle("POST /api/chat/image", s.rateLimited(http.HandlerFunc(s.handleSubmitImage)))
	s.mux.HandleFunc("GET /api/chat/transcript", s.handleTranscript)
	s.mux.HandleFunc("GET /api/photos/{key...}", s.handleGetPhoto)

	s.mux.HandleFunc("POST /submit", s.handleSubmitBreed)
	s.mux.HandleFunc("POST /uploadPrediction", s.handleUploadPrediction)

	s.mux.HandleFunc("GET /api/records/predictions", s.handleListPredictions)
	s.mux.HandleFunc("GET /api/records/breeds", s.handleListBreeds)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// rateLimited rejects clients that exceed their chat budget. Limiter errors
// fail open: a broken Redis must not take the chat down.
func (s *Server) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, err := s.limiter.Allow(r.Context(), clientKey(r))
		if err != nil {
			s.logger.Error("rate limiter check failed", "error", err)
			allowed = true
		}
		if !allowed {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies a client for rate limiting by remote IP.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	modelReady := s.service.Ready(r.Context()) == nil
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"model_ready": modelReady,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
