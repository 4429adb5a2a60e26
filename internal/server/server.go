// Package server serves the converter page and its JSON API.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/earlysvahn/unitsense/internal/session"
	"github.com/earlysvahn/unitsense/internal/widget"
)

const (
	DefaultAddr   = "127.0.0.1:8501"
	sessionCookie = "unitsense_session"
)

//go:embed templates/index.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

type Server struct {
	actions  *widget.Actions
	sessions *session.Manager
	limiter  *AskLimiter
	trusted  TrustedProxies
	log      *zap.Logger
}

// New wires a server. limiter may be nil to disable ask limiting; trusted
// names the proxies allowed to report the client address.
func New(actions *widget.Actions, sessions *session.Manager, limiter *AskLimiter, trusted TrustedProxies, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{actions: actions, sessions: sessions, limiter: limiter, trusted: trusted, log: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /convert", s.handleConvert)
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("POST /api/convert", s.handleAPIConvert)
	mux.HandleFunc("POST /api/ask", s.handleAPIAsk)
	mux.HandleFunc("GET /api/history", s.handleAPIHistory)
	return s.logRequests(mux)
}

// Run serves h on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) cookieValue(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// history returns the caller's history for display. Callers without a live
// session see an empty one and no session is created for them.
func (s *Server) history(r *http.Request) *session.History {
	if hist, ok := s.sessions.Lookup(s.cookieValue(r)); ok {
		return hist
	}
	return session.NewHistory()
}

// session returns the caller's session, starting one and issuing its cookie
// when needed. Only asking calls this.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *session.History) {
	current := s.cookieValue(r)
	id, hist := s.sessions.Get(current)
	if id.String() != current {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id.String(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return id.String(), hist
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
