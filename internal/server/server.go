// Package server exposes the descent solver as an HTTP and JSON-RPC
// service with asynchronous run management.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/descentlabs/descent/internal/config"
	"github.com/descentlabs/descent/internal/logging"
	"github.com/descentlabs/descent/internal/optimize"
	"github.com/descentlabs/descent/internal/optimize/descent"
	"github.com/descentlabs/descent/internal/optimize/golden"
)

// Logger is the logging surface the server needs; it keeps the server
// flexible about the concrete logging implementation.
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// RunState tracks one descent run: status, timing and, once finished, the
// result. Access is guarded by the server's run mutex.
type RunState struct {
	ID          string
	Status      string // "pending", "running", "completed", "failed", "cancelled"
	StartTime   time.Time
	EndTime     *time.Time
	Result      *optimize.Result
	Err         string
	CancelFunc  context.CancelFunc
	LastUpdated time.Time
}

// Server manages descent runs and serves their status.
type Server struct {
	cfg    *config.Config
	logger Logger

	runs   map[string]*RunState
	runsMu sync.RWMutex
}

// NewServer creates a server instance with the given config and logger.
func NewServer(cfg *config.Config, logger Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		runs:   make(map[string]*RunState),
	}
}

// RegisterRoutes mounts the API on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/optimize", s.handleOptimize)
		r.Post("/golden", s.handleGolden)
		r.Get("/status/{id}", s.handleStatus)
		r.Delete("/optimization/{id}", s.handleCancel)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      interface{}     `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondWithError(w, -32700, "Parse error", nil)
		return
	}
	if request.JSONRPC != "2.0" {
		s.respondWithError(w, -32600, "Invalid Request", request.ID)
		return
	}

	var result interface{}
	var err error

	switch request.Method {
	case "descent.start":
		var req OptimizeRequest
		if err = json.Unmarshal(request.Params, &req); err == nil {
			result, err = s.startRun(req)
		}
	case "descent.status":
		var req struct {
			RunID string `json:"run_id"`
		}
		if err = json.Unmarshal(request.Params, &req); err == nil {
			result, err = s.runStatus(req.RunID)
		}
	case "descent.cancel":
		var req struct {
			RunID string `json:"run_id"`
		}
		if err = json.Unmarshal(request.Params, &req); err == nil {
			err = s.cancelRun(req.RunID)
		}
	case "descent.golden":
		var req GoldenRequest
		if err = json.Unmarshal(request.Params, &req); err == nil {
			result, err = s.runGolden(req)
		}
	default:
		s.respondWithError(w, -32601, "Method not found", request.ID)
		return
	}

	if err != nil {
		s.respondWithError(w, -32000, err.Error(), request.ID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
		"result":  result,
	})
}

// startRun validates the request, builds a solver and launches it in a
// goroutine, returning the run ID immediately.
func (s *Server) startRun(req OptimizeRequest) (interface{}, error) {
	solver, err := s.buildSolver(req)
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("run_%d", time.Now().UnixNano())
	ctx, cancel := context.WithCancel(context.Background())

	state := &RunState{
		ID:          id,
		Status:      "pending",
		StartTime:   time.Now(),
		CancelFunc:  cancel,
		LastUpdated: time.Now(),
	}

	s.runsMu.Lock()
	s.runs[id] = state
	s.runsMu.Unlock()

	runsStarted.Inc()
	go s.runDescent(ctx, state, solver)

	return map[string]interface{}{
		"run_id": id,
		"status": "pending",
	}, nil
}

// runDescent executes one solve and records its outcome. The run may be
// cancelled before this goroutine is ever scheduled, so every status
// transition checks that the run has not already reached a terminal state.
func (s *Server) runDescent(ctx context.Context, state *RunState, solver *descent.Solver) {
	s.runsMu.Lock()
	if state.Status == "pending" {
		state.Status = "running"
	}
	state.LastUpdated = time.Now()
	s.runsMu.Unlock()

	result, err := solver.Solve(ctx)

	s.runsMu.Lock()
	defer s.runsMu.Unlock()

	switch {
	case errors.Is(err, context.Canceled):
		// cancelRun flips the status and counter for its own cancellations;
		// here only cancellations arriving through the context directly
		// (e.g. Close) still need recording.
		if state.Status != "cancelled" {
			state.Status = "cancelled"
			runsFinished.WithLabelValues("cancelled").Inc()
		}
	case err != nil:
		s.logger.Error("Descent run failed", map[string]interface{}{
			"run_id": state.ID,
			"error":  err.Error(),
		})
		state.Status = "failed"
		state.Err = err.Error()
		runsFinished.WithLabelValues("failed").Inc()
	default:
		state.Result = result
		if state.Status != "cancelled" {
			state.Status = "completed"
			runsFinished.WithLabelValues("completed").Inc()
			s.logger.Info("Descent run completed", map[string]interface{}{
				"run_id":     state.ID,
				"converged":  result.Converged,
				"iterations": result.Iterations,
			})
		}
	}

	now := time.Now()
	if state.EndTime == nil {
		state.EndTime = &now
	}
	state.LastUpdated = now
}

// runStatus reports the current state of a run.
func (s *Server) runStatus(id string) (interface{}, error) {
	if id == "" {
		return nil, fmt.Errorf("run_id is required")
	}

	s.runsMu.RLock()
	defer s.runsMu.RUnlock()

	state, exists := s.runs[id]
	if !exists {
		return nil, fmt.Errorf("run not found")
	}

	response := map[string]interface{}{
		"run_id":      state.ID,
		"status":      state.Status,
		"start_time":  state.StartTime.Format(time.RFC3339),
		"last_update": state.LastUpdated.Format(time.RFC3339),
	}
	if state.EndTime != nil {
		response["end_time"] = state.EndTime.Format(time.RFC3339)
	}
	if state.Err != "" {
		response["error"] = state.Err
	}
	if state.Result != nil {
		response["result"] = resultPayload(state.Result)
	}
	return response, nil
}

// cancelRun cancels a pending or running run.
func (s *Server) cancelRun(id string) error {
	if id == "" {
		return fmt.Errorf("run_id is required")
	}

	s.runsMu.Lock()
	defer s.runsMu.Unlock()

	state, exists := s.runs[id]
	if !exists {
		return fmt.Errorf("run not found")
	}

	switch state.Status {
	case "completed", "failed", "cancelled":
		return fmt.Errorf("cannot cancel run with status: %s", state.Status)
	}

	if state.CancelFunc != nil {
		state.CancelFunc()
	}

	state.Status = "cancelled"
	now := time.Now()
	state.EndTime = &now
	state.LastUpdated = now
	runsFinished.WithLabelValues("cancelled").Inc()

	s.logger.Info("Descent run cancelled", map[string]interface{}{
		"run_id": id,
	})
	return nil
}

// runGolden executes a synchronous golden-section search over a polynomial.
func (s *Server) runGolden(req GoldenRequest) (interface{}, error) {
	if len(req.Coeffs) == 0 {
		return nil, fmt.Errorf("coeffs are required")
	}

	f := polynomial(req.Coeffs)
	res, err := golden.Minimize(f, req.Lower, req.Upper, req.Tol)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"x":          res.X,
		"f":          res.F,
		"converged":  res.Converged,
		"message":    res.Message,
		"iterations": res.Iterations,
		"func_evals": res.Counts.FuncEvals,
	}, nil
}

// resultPayload flattens a Result for JSON transport; the Hessian is
// reported row-major.
func resultPayload(res *optimize.Result) map[string]interface{} {
	payload := map[string]interface{}{
		"x":          res.X,
		"converged":  res.Converged,
		"message":    res.Message,
		"iterations": res.Iterations,
		"f":          res.F,
		"counts": map[string]int{
			"func_evals": res.Counts.FuncEvals,
			"grad_evals": res.Counts.GradEvals,
			"hess_evals": res.Counts.HessEvals,
		},
	}
	if res.Gradient != nil {
		payload["gradient"] = res.Gradient
	}
	if res.Hessian != nil {
		r, c := res.Hessian.Dims()
		payload["hessian"] = map[string]interface{}{
			"rows": r,
			"cols": c,
			"data": res.Hessian.RawMatrix().Data,
		}
	}
	return payload
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.logger.Error("Request error", map[string]interface{}{
		"code":    code,
		"message": message,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"id": id,
	})
}

// Close cancels all running optimizations.
func (s *Server) Close() error {
	s.runsMu.Lock()
	defer s.runsMu.Unlock()

	for _, run := range s.runs {
		if run.CancelFunc != nil {
			run.CancelFunc()
		}
	}
	return nil
}

// handleOptimize handles POST /api/v1/optimize.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := s.startRun(req)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(result)
}

// handleGolden handles POST /api/v1/golden synchronously.
func (s *Server) handleGolden(w http.ResponseWriter, r *http.Request) {
	var req GoldenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := s.runGolden(req)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// handleStatus handles GET /api/v1/status/{id}.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing run ID", http.StatusBadRequest)
		return
	}

	result, err := s.runStatus(id)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// handleCancel handles DELETE /api/v1/optimization/{id}.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing run ID", http.StatusBadRequest)
		return
	}

	err := s.cancelRun(id)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "cancellation requested"})
}
