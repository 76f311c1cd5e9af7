// Package web serves the quiz over HTTP.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/verte-zerg/pvptrainer/internal/dex"
	"github.com/verte-zerg/pvptrainer/internal/generator"
	"github.com/verte-zerg/pvptrainer/internal/model"
	"github.com/verte-zerg/pvptrainer/internal/session"
	"github.com/verte-zerg/pvptrainer/internal/store"
)

// ShellName tags history rows recorded by the HTTP shell.
const ShellName = "web"

const (
	sessionCookie = "sid"
	maxUploadSize = 4 << 20
	maxBodySize   = 64 << 10
)

//go:embed templates/index.html
var indexPage []byte

// Config holds the dependencies of a Server.
type Config struct {
	Dex          dex.Dex
	Files        dex.Files
	DatasetsDir  string
	Sessions     session.Store
	History      *store.Store
	Generator    *generator.Generator
	Weights      model.Weights
	// DefaultMaxCP seeds new sessions. Zero keeps session.DefaultMaxCP; a
	// negative value means no cap.
	DefaultMaxCP int
	Logger       *slog.Logger
}

// Server implements the quiz HTTP API.
type Server struct {
	cfg Config
	log *slog.Logger

	// guards cfg.Generator
	mu sync.Mutex
}

// NewServer validates cfg.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Generator == nil {
		return nil, errors.New("generator is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{cfg: cfg, log: cfg.Logger}, nil
}

// Handler returns the router with all routes registered.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(withSession)
	api.HandleFunc("/", s.index).Methods(http.MethodGet)
	api.HandleFunc("/get_sidebar_data", s.sidebarData).Methods(http.MethodGet)
	api.HandleFunc("/update_max_cp", s.updateMaxCP).Methods(http.MethodPost)
	api.HandleFunc("/load_dataset", s.loadDataset).Methods(http.MethodPost)
	api.HandleFunc("/upload_dataset", s.uploadDataset).Methods(http.MethodPost)
	api.HandleFunc("/get_question", s.getQuestion).Methods(http.MethodPost)
	api.HandleFunc("/check_answer", s.checkAnswer).Methods(http.MethodPost)
	return r
}

type ctxKey struct{}

// withSession ensures every request carries a session id cookie.
func withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// loadState returns the session state, creating defaults for new sessions.
func (s *Server) loadState(ctx context.Context) (session.State, error) {
	state, err := s.cfg.Sessions.Get(ctx, sessionID(ctx))
	if errors.Is(err, session.ErrNotFound) {
		state = session.NewState()
		if s.cfg.DefaultMaxCP != 0 {
			state.MaxCP = s.cfg.DefaultMaxCP
		}
		return state, nil
	}
	return state, err
}

func (s *Server) saveState(ctx context.Context, state session.State) error {
	return s.cfg.Sessions.Save(ctx, sessionID(ctx), state)
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.log.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
