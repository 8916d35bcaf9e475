// Package server exposes the engine over HTTP for browser front ends.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"git.lost.host/meutraa/tutor/internal/engine"
	"git.lost.host/meutraa/tutor/internal/input"
	"git.lost.host/meutraa/tutor/internal/log"
	"git.lost.host/meutraa/tutor/internal/score"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Engine         *engine.Engine
	Store          score.Store // nil when history is disabled
	Logger         *log.Logger
	AllowedOrigins []string
}

type pointerRequest struct {
	X float64 `json:"x"`
}

type progressRequest struct {
	Percentage float64 `json:"percentage"`
}

type keyRequest struct {
	Pitch    string `json:"pitch"`
	Velocity uint8  `json:"velocity"`
}

type sessionResponse struct {
	Session *score.Session `json:"session"`
	Stats   score.Stats    `json:"stats"`
}

type historyResponse struct {
	Best      *score.History  `json:"best,omitempty"`
	Histories []score.History `json:"histories"`
}

func New(e *engine.Engine, store score.Store, logger *log.Logger, origins []string) *Server {
	if nil == logger {
		logger = log.Nop()
	}
	return &Server{
		Engine:         e,
		Store:          store,
		Logger:         logger,
		AllowedOrigins: origins,
	}
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/state", s.handleState).Methods("GET")
	router.HandleFunc("/layout", s.handleLayout).Methods("GET")
	router.HandleFunc("/session", s.handleSession).Methods("GET")
	router.HandleFunc("/history", s.handleHistory).Methods("GET")

	router.HandleFunc("/play", s.command(s.Engine.Play)).Methods("POST")
	router.HandleFunc("/pause", s.command(s.Engine.Pause)).Methods("POST")
	router.HandleFunc("/toggle", s.command(s.Engine.TogglePlay)).Methods("POST")

	router.HandleFunc("/drag/start", s.pointer(s.Engine.DragStart)).Methods("POST")
	router.HandleFunc("/drag/move", s.pointer(s.Engine.DragMove)).Methods("POST")
	router.HandleFunc("/drag/end", s.command(s.Engine.DragEnd)).Methods("POST")
	router.HandleFunc("/drag/cancel", s.command(s.Engine.CancelGesture)).Methods("POST")

	router.HandleFunc("/progress/seek", s.progress(s.Engine.Seek)).Methods("POST")
	router.HandleFunc("/progress/start", s.command(s.Engine.ProgressDragStart)).Methods("POST")
	router.HandleFunc("/progress/move", s.progress(s.Engine.ProgressDragMove)).Methods("POST")
	router.HandleFunc("/progress/end", s.progress(s.Engine.ProgressDragEnd)).Methods("POST")

	router.HandleFunc("/keys/press", s.handlePress).Methods("POST")
	router.HandleFunc("/keys/release", s.handleRelease).Methods("POST")

	router.HandleFunc("/game/start", s.command(s.Engine.StartGame)).Methods("POST")
	router.HandleFunc("/game/reset", s.command(s.Engine.ResetGame)).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(router)
}

// ListenAndServe blocks until ctx is done or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	s.Logger.Infof("listening on %s", addr)

	select {
	case err := <-errs:
		return errors.Wrapf(err, "unable to serve on %s", addr)
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdown); nil != err {
		return errors.Wrap(err, "unable to shut down server")
	}
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Engine.Snapshot())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Engine.Layout())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	f := s.Engine.Snapshot()
	s.writeJSON(w, sessionResponse{Session: f.Session, Stats: f.Stats})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if nil == s.Store {
		http.Error(w, "history is disabled", http.StatusNotFound)
		return
	}
	histories, err := s.Store.Load(s.Engine.Score())
	if nil != err {
		s.Logger.Errorf("unable to load history: %v", err)
		http.Error(w, "unable to load history", http.StatusInternalServerError)
		return
	}
	res := historyResponse{Histories: histories}
	if nil == res.Histories {
		res.Histories = []score.History{}
	}
	if best, ok := score.Best(histories); ok {
		res.Best = &best
	}
	s.writeJSON(w, res)
}

func (s *Server) handlePress(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Pitch == "" {
		http.Error(w, "pitch is required", http.StatusBadRequest)
		return
	}
	if req.Velocity == 0 {
		req.Velocity = input.DefaultVelocity
	}
	s.writeJSON(w, s.Engine.Press(req.Pitch, req.Velocity, time.Time{}))
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.Engine.Release(req.Pitch)
	s.writeJSON(w, s.Engine.Snapshot())
}

// command runs f and replies with the resulting frame.
func (s *Server) command(f func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f()
		s.writeJSON(w, s.Engine.Snapshot())
	}
}

func (s *Server) pointer(f func(x float64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pointerRequest
		if !s.decode(w, r, &req) {
			return
		}
		f(req.X)
		s.writeJSON(w, s.Engine.Snapshot())
	}
}

func (s *Server) progress(f func(p float64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req progressRequest
		if !s.decode(w, r, &req) {
			return
		}
		f(req.Percentage)
		s.writeJSON(w, s.Engine.Snapshot())
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); nil != err {
		s.Logger.Debugf("bad request to %s: %v", r.URL.Path, err)
		http.Error(w, "invalid JSON input", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); nil != err {
		s.Logger.Errorf("unable to write response: %v", err)
	}
}
