// Package control serves a local HTTP API for inspecting and driving a
// running instance. It is bound to loopback by default and carries no auth.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"mindfulbreak/internal/core/content"
	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/core/scheduler"
)

// ErrConflict is returned by Client when the instance ignored a transition
// because it was not valid in the current state.
var ErrConflict = errors.New("transition not applicable")

// Scheduler is the part of the work/break scheduler the API drives.
type Scheduler interface {
	Snapshot() scheduler.Snapshot
	Accept()
	Decline()
	TakeBreakNow()
	EndBreak()
	RefreshContent() bool
	Subscribe(buffer int) <-chan scheduler.Event
	Unsubscribe(events <-chan scheduler.Event)
}

// Content is the read side of the content provider.
type Content interface {
	State() content.State
	Subscribe(buffer int) <-chan content.State
	Unsubscribe(states <-chan content.State)
}

// Preferences reads and writes the content preference.
type Preferences interface {
	Preference() model.ContentPreference
	SetPreference(preference model.ContentPreference) error
}

// Server is the control API.
type Server struct {
	scheduler   Scheduler
	content     Content
	preferences Preferences
	logger      logrus.FieldLogger
	router      chi.Router
}

// NewServer builds the router. preferences may be nil, in which case the
// preference routes report 404.
func NewServer(sched Scheduler, provider Content, preferences Preferences, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	server := &Server{
		scheduler:   sched,
		content:     provider,
		preferences: preferences,
		logger:      logger.WithField("component", "control"),
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(server.requestLogger)
	r.Use(chiMiddleware.Heartbeat("/health"))
	server.RegisterRoutes(r)
	server.router = r
	return server
}

// RegisterRoutes registers the API routes on r.
func (server *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", server.GetState)
		r.Get("/content", server.GetContent)
		r.Post("/content/refresh", server.RefreshContent)
		r.Get("/events", server.StreamEvents)

		r.Route("/break", func(r chi.Router) {
			r.Post("/", server.TakeBreak)
			r.Post("/accept", server.AcceptBreak)
			r.Post("/decline", server.DeclineBreak)
			r.Post("/end", server.EndBreak)
		})

		if server.preferences != nil {
			r.Get("/preference", server.GetPreference)
			r.Put("/preference", server.SetPreference)
		}
	})
}

// Handler returns the root handler.
func (server *Server) Handler() http.Handler {
	return server.router
}

// ListenAndServe serves on address until ctx is cancelled, then shuts down
// gracefully.
func (server *Server) ListenAndServe(ctx context.Context, address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}
	return server.Serve(ctx, listener)
}

// Serve is ListenAndServe on an existing listener.
func (server *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errs := make(chan error, 1)
	go func() {
		server.logger.WithField("address", listener.Addr().String()).Info("control API listening")
		errs <- srv.Serve(listener)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve control API: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown control API: %w", err)
	}
	server.logger.Info("control API stopped")
	return nil
}

func (server *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		server.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(started),
			"request_id": chiMiddleware.GetReqID(r.Context()),
		}).Debug("control request")
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
