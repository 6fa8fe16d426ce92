// Package web serves the quick language helper over HTTP: a single page with
// the translation form and a small JSON API behind it.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ZaguanLabs/quicklang"
	"github.com/ZaguanLabs/quicklang/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Defaults for Options fields left empty.
const (
	DefaultIdentityHeader = "X-Forwarded-User"
	DefaultCookieName     = "quicklang_session"
)

// Options configures the web server.
type Options struct {
	IdentityHeader    string // Header set by an authenticating proxy
	RequireIdentity   bool   // Reject requests without IdentityHeader
	CookieName        string
	SecureCookie      bool
	LongTextThreshold int // Characters above which the client must confirm
	Logger            *slog.Logger
	Metrics           http.Handler                // Served on /metrics when set
	Health            func(context.Context) error // Extra readiness check for /healthz
}

// Server serves the web interface and JSON API over a session registry.
type Server struct {
	registry *Registry
	opts     Options
	logger   *slog.Logger
}

// NewServer creates a server, filling in defaults for empty options.
func NewServer(registry *Registry, opts Options) *Server {
	if opts.IdentityHeader == "" {
		opts.IdentityHeader = DefaultIdentityHeader
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.LongTextThreshold <= 0 {
		opts.LongTextThreshold = quicklang.DefaultLongTextThreshold
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{registry: registry, opts: opts, logger: logger.With("component", "web")}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	if s.opts.Metrics != nil {
		r.Handle("/metrics", s.opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.identify)

		r.Get("/", s.index)
		r.Route("/api", func(r chi.Router) {
			r.Get("/options", s.options)
			r.Get("/state", s.state)
			r.Post("/key", s.setKey)
			r.Delete("/key", s.clearKey)
			r.Post("/translate", s.translate)
			r.Post("/exercises", s.exercises)
			r.Post("/exercises/{grammar}", s.exercises)
			r.Get("/export", s.export)
			r.Post("/import", s.importText)
			r.Post("/reset", s.reset)
		})
	})

	return r
}

type ctxKey struct{}

// identify resolves the caller's session. A proxy-supplied identity wins;
// otherwise an anonymous id is kept in a cookie.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if user := r.Header.Get(s.opts.IdentityHeader); user != "" {
			id = "user:" + user
		} else if s.opts.RequireIdentity {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
			return
		} else if c, err := r.Cookie(s.opts.CookieName); err == nil && validSessionID(c.Value) {
			id = "anon:" + c.Value
		} else {
			anon := uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     s.opts.CookieName,
				Value:    anon,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.opts.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
			id = "anon:" + anon
		}

		session := s.registry.Get(id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, session)))
	})
}

func validSessionID(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}

func sessionFrom(r *http.Request) *quicklang.Session {
	return r.Context().Value(ctxKey{}).(*quicklang.Session)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		if err := s.opts.Health(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// Sweep evicts sessions idle for longer than maxIdle, checking every interval,
// until ctx is done. It returns at once when maxIdle is zero or less.
func (s *Server) Sweep(ctx context.Context, every, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.registry.Evict(maxIdle); n > 0 {
				s.logger.Info("evicted idle sessions", "count", n, "remaining", s.registry.Len())
			}
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// writeFailure maps a session error to a status code.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var (
		validation *quicklang.ValidationError
		dup        *quicklang.DuplicateRequestError
		provider   *quicklang.ProviderError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validation.Message, Code: "invalid", Field: validation.Field})
	case errors.As(err, &dup):
		writeError(w, http.StatusConflict, "duplicate", err.Error())
	case errors.Is(err, quicklang.ErrMissingAPIKey):
		writeError(w, http.StatusPreconditionFailed, "missing_key", err.Error())
	case errors.Is(err, quicklang.ErrInvalidAPIKey):
		writeError(w, http.StatusBadRequest, "invalid_key", err.Error())
	case errors.Is(err, quicklang.ErrBusy):
		writeError(w, http.StatusTooManyRequests, "busy", err.Error())
	case errors.Is(err, quicklang.ErrNothingToExport):
		writeError(w, http.StatusNotFound, "nothing_to_export", err.Error())
	case errors.As(err, &provider):
		writeError(w, http.StatusBadGateway, "provider", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", err.Error())
	default:
		s.logger.Error("unhandled error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
