package web

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"promptquest/internal/infra/logging"
	"promptquest/internal/usecase"
)

type Server struct {
	play   usecase.PlayUseCase
	auth   *AuthManager
	apiKey string
	health func(ctx context.Context) error
	log    *zerolog.Logger
}

func NewServer(
	play usecase.PlayUseCase,
	auth *AuthManager,
	apiKey string,
	health func(ctx context.Context) error,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		play:   play,
		auth:   auth,
		apiKey: apiKey,
		health: health,
		log:    logger,
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.traceMiddleware)

	r.Get("/healthz", s.healthzHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/turns", s.turnHandler)
		r.Get("/sessions/{id}", s.sessionHandler)
		r.Post("/sessions/{id}/reset", s.sessionResetHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.adminLoginHandler)
			r.Group(func(r chi.Router) {
				r.Use(s.adminMiddleware)
				r.Get("/stats", s.adminStatsHandler)
				r.Post("/reset", s.adminResetHandler)
			})
		})
	})
	return r
}

// traceMiddleware stamps each request with a ULID trace id and logs the
// request once it completes.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
		ctx := logging.WithTraceID(r.Context(), traceID)
		w.Header().Set("X-Trace-Id", traceID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		s.log.Info().
			Str("trace_id", traceID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// adminMiddleware requires a valid admin JWT (cookie or bearer).
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
