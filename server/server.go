// Package server exposes the game over a small JSON API so external
// clients and notebooks can drive matches.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/0xtyls/n-r-ai/engine"
	"github.com/0xtyls/n-r-ai/engine/save"
	"github.com/0xtyls/n-r-ai/sim"
	"github.com/0xtyls/n-r-ai/types"
)

// Server serializes access to one environment. The engine is pure; the
// mutex only guards the environment's current-state pointer.
type Server struct {
	mu  sync.Mutex
	env *sim.Environment
}

// New creates a server over an environment that has already been Reset.
func New(env *sim.Environment) *Server {
	return &Server{env: env}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/actions", s.handleActions)
	mux.HandleFunc("POST /api/step", s.handleStep)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	return withCORS(mux)
}

// stateView is the wire shape for a game state plus its content key.
type stateView struct {
	State *save.Snapshot `json:"state"`
	Key   string         `json:"key"`
	Done  bool           `json:"done"`
}

type stepRequest struct {
	Pick int `json:"pick"`
}

type stepResponse struct {
	stateView
	Reward  float64        `json:"reward"`
	Applied types.Action   `json:"applied"`
	Actions []types.Action `json:"actions"`
}

type resetRequest struct {
	Seed int64 `json:"seed"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := s.viewLocked()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.env.State == nil {
		writeError(w, http.StatusConflict, fmt.Errorf("no game in progress; POST /api/reset first"))
		return
	}
	actions := s.env.Engine.LegalActions(s.env.State)
	writeJSON(w, http.StatusOK, map[string]any{"actions": actions})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.env.State == nil {
		writeError(w, http.StatusConflict, fmt.Errorf("no game in progress; POST /api/reset first"))
		return
	}
	actions := s.env.Engine.LegalActions(s.env.State)
	if req.Pick < 0 || req.Pick >= len(actions) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("pick %d out of range [0,%d)", req.Pick, len(actions)))
		return
	}
	applied := actions[req.Pick]
	_, reward, _, err := s.env.Step(applied)
	if err != nil {
		var illegal *engine.IllegalActionError
		if errors.As(err, &illegal) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	// Auto-advance through enemy, event, and cleanup so the client always
	// sees a decision point or a terminal state.
	if _, err := s.env.Run(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	view, err := s.viewLocked()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	next := []types.Action(nil)
	if !s.env.Done {
		next = s.env.Engine.LegalActions(s.env.State)
	}
	writeJSON(w, http.StatusOK, stepResponse{
		stateView: view,
		Reward:    reward,
		Applied:   applied,
		Actions:   next,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.env.Reset(req.Seed); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	view, err := s.viewLocked()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) viewLocked() (stateView, error) {
	if s.env.State == nil {
		return stateView{}, fmt.Errorf("no game in progress")
	}
	key, err := save.StateKey(s.env.State)
	if err != nil {
		return stateView{}, err
	}
	return stateView{
		State: save.FromState(s.env.State),
		Key:   key,
		Done:  s.env.Done,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// withCORS allows browser clients served from another origin.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
