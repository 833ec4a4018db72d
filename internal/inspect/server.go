// Package inspect serves the local HTTP surface for observing and steering a
// running agent: engine status, the latest snapshot, manual action
// submission, and the execution history.
package inspect

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/config"
	"github.com/JoelJaison394/Minecraft-Agent/internal/engine"
	"github.com/JoelJaison394/Minecraft-Agent/internal/executor"
	"github.com/JoelJaison394/Minecraft-Agent/internal/history"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region server

// maxActBody bounds the POST /act request body.
const maxActBody = 64 << 10

// defaultHistoryN is the history page size when ?n= is absent.
const defaultHistoryN = 50

// Server is the inspection HTTP server. It holds no state of its own; every
// read goes to the engine, sensor, or history log.
type Server struct {
	eng    *engine.Engine
	sensor world.Sensor
	hist   *history.Log
	logger *zap.Logger
	srv    *http.Server
}

// NewServer wires the inspection server for the configured address.
func NewServer(cfg config.InspectConfig, eng *engine.Engine, sensor world.Sensor,
	hist *history.Log, logger *zap.Logger) *Server {

	s := &Server{eng: eng, sensor: sensor, hist: hist, logger: logger}
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("POST /act", s.handleAct)
	mux.HandleFunc("POST /cycle/start", s.handleCycleStart)
	mux.HandleFunc("POST /cycle/stop", s.handleCycleStop)
	return mux
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		s.logger.Info("inspection server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("inspection server failed", zap.Error(err))
		}
	}()
}

// Shutdown stops the server, waiting for in-flight requests up to ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// #endregion

// #region read-handlers

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.eng.Status())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.sensor.Snapshot())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	n := defaultHistoryN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}
	s.writeJSON(w, http.StatusOK, s.hist.Recent(n))
}

// #endregion

// #region act-handler

// actResponse reports the terminal outcome of a manually submitted action.
type actResponse struct {
	Result string `json:"result"`
	Reason string `json:"reason,omitempty"`
}

// handleAct decodes, validates, and synchronously executes one action. The
// request blocks until the action's terminal outcome; a second action while
// one is in flight is refused with 409.
func (s *Server) handleAct(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxActBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	a, err := action.Decode(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.eng.ExecuteManual(r.Context(), a)
	if errors.Is(err, executor.ErrBusy) {
		s.writeError(w, http.StatusConflict, executor.ErrBusy.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, actResponse{Result: string(out.Result), Reason: out.Reason})
}

// #endregion

// #region cycle-handlers

func (s *Server) handleCycleStart(w http.ResponseWriter, r *http.Request) {
	s.eng.Start()
	s.writeJSON(w, http.StatusOK, map[string]bool{"running": true})
}

func (s *Server) handleCycleStop(w http.ResponseWriter, r *http.Request) {
	s.eng.Stop()
	s.writeJSON(w, http.StatusOK, map[string]bool{"running": false})
}

// #endregion

// #region json-helpers

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("inspect response encode failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// #endregion
