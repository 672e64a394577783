package calculator

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ibc_tool/pkg/core/calculator"
	"ibc_tool/pkg/core/memory"
	"ibc_tool/pkg/core/session"
	"ibc_tool/pkg/core/utils"
	"ibc_tool/pkg/core/valuation"
)

// maxBody caps request bodies; presets are the largest payload
const maxBody = 64 << 10

type CreateResponse struct {
	ID    string           `json:"id"`
	State calculator.State `json:"state"`
}

type PressRequest struct {
	ID   string `json:"id"`
	Keys string `json:"keys"`
}

type MemoryRequest struct {
	ID     string   `json:"id"`
	Key    string   `json:"key"`
	Value  *float64 `json:"value,omitempty"`
	Preset string   `json:"preset,omitempty"`
}

// ModelRequest runs a model button; WACC is required for the wacc model only
type ModelRequest struct {
	ID    string               `json:"id"`
	Model string               `json:"model"`
	WACC  *valuation.WACCInput `json:"wacc,omitempty"`
}

type EvalRequest struct {
	ID         string `json:"id"`
	Expression string `json:"expression"`
}

type IDRequest struct {
	ID string `json:"id"`
}

// StateResponse carries the calculator state and, for a rejected key, the error
type StateResponse struct {
	State calculator.State `json:"state"`
	Error string           `json:"error,omitempty"`
}

type HistoryResponse struct {
	Entries []string `json:"entries"`
	Limit   int      `json:"limit"`
}

// Handler serves the calculator session endpoints
type Handler struct {
	Sessions *session.Manager
}

// NewHandler creates a new calculator handler
func NewHandler(sessions *session.Manager) *Handler {
	return &Handler{Sessions: sessions}
}

// Register mounts every endpoint on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/session", h.HandleCreate)
	mux.HandleFunc("/api/session/state", h.HandleState)
	mux.HandleFunc("/api/session/press", h.HandlePress)
	mux.HandleFunc("/api/session/memory", h.HandleMemory)
	mux.HandleFunc("/api/session/model", h.HandleModel)
	mux.HandleFunc("/api/session/eval", h.HandleEval)
	mux.HandleFunc("/api/session/history", h.HandleHistory)
	mux.HandleFunc("/api/session/history/clear", h.HandleClearHistory)
}

// cors writes the local dev headers and reports whether the request was a preflight
func cors(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// decode reads a lenient JSON body into req and checks required fields
func decode(r *http.Request, req interface{}, required ...string) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return err
	}
	if _, err := utils.SmartParse(string(body), req); err != nil {
		return err
	}
	return utils.RequireFields(req, required...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// lookup resolves the session or writes 404
func (h *Handler) lookup(w http.ResponseWriter, id string) (*session.Session, bool) {
	s, err := h.Sessions.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s := h.Sessions.Create()
	var st calculator.State
	s.Do(func(c *calculator.Calculator) error {
		st = c.State()
		return nil
	})
	fmt.Printf("[API] Session %s created (%d active)\n", s.ID, h.Sessions.Len())
	writeJSON(w, http.StatusCreated, CreateResponse{ID: s.ID, State: st})
}

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s, ok := h.lookup(w, r.URL.Query().Get("id"))
	if !ok {
		return
	}
	var st calculator.State
	s.Do(func(c *calculator.Calculator) error {
		st = c.State()
		return nil
	})
	writeJSON(w, http.StatusOK, StateResponse{State: st})
}

func (h *Handler) HandlePress(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	var req PressRequest
	if err := decode(r, &req, "ID", "Keys"); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s, ok := h.lookup(w, req.ID)
	if !ok {
		return
	}

	resp := StateResponse{}
	status := http.StatusOK
	s.Do(func(c *calculator.Calculator) error {
		if err := c.PressAll(req.Keys); err != nil {
			// Keys before the failing one stay applied
			resp.Error = err.Error()
			status = http.StatusBadRequest
		}
		resp.State = c.State()
		return nil
	})
	if resp.Error != "" {
		fmt.Printf("[API] Press %q rejected: %s\n", req.Keys, resp.Error)
	}
	writeJSON(w, status, resp)
}

func (h *Handler) HandleMemory(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	var req MemoryRequest
	if err := decode(r, &req, "ID"); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Key == "" && req.Preset == "" {
		http.Error(w, "Either key or preset is required", http.StatusBadRequest)
		return
	}
	s, ok := h.lookup(w, req.ID)
	if !ok {
		return
	}

	// Reject a bad key before the preset replaces the bank
	var key memory.Key
	if req.Key != "" {
		k, err := memory.ParseKey(req.Key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		key = k
	}

	var st calculator.State
	err := s.Do(func(c *calculator.Calculator) error {
		if req.Preset != "" {
			if err := c.LoadPreset(req.Preset); err != nil {
				return err
			}
		}
		if key != "" {
			var err error
			if req.Value != nil {
				err = c.SetMemory(key, *req.Value)
			} else {
				err = c.StoreMemory(key)
			}
			if err != nil {
				return err
			}
		}
		st = c.State()
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, StateResponse{State: st})
}

func (h *Handler) HandleModel(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	var req ModelRequest
	if err := decode(r, &req, "ID", "Model"); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s, ok := h.lookup(w, req.ID)
	if !ok {
		return
	}

	var st calculator.State
	err := s.Do(func(c *calculator.Calculator) error {
		if strings.EqualFold(req.Model, calculator.ModelWACC) {
			if req.WACC == nil {
				return fmt.Errorf("model %s requires wacc inputs", calculator.ModelWACC)
			}
			if _, err := c.WACC(*req.WACC); err != nil {
				return err
			}
		} else if err := c.RunModel(req.Model); err != nil {
			return err
		}
		st = c.State()
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fmt.Printf("[API] Model %s on %s = %s\n", req.Model, req.ID, st.Display)
	writeJSON(w, http.StatusOK, StateResponse{State: st})
}

func (h *Handler) HandleEval(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	var req EvalRequest
	if err := decode(r, &req, "ID", "Expression"); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s, ok := h.lookup(w, req.ID)
	if !ok {
		return
	}

	var st calculator.State
	err := s.Do(func(c *calculator.Calculator) error {
		if _, err := c.Evaluate(req.Expression); err != nil {
			return err
		}
		st = c.State()
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, StateResponse{State: st})
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s, ok := h.lookup(w, r.URL.Query().Get("id"))
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	var (
		entries  []string
		limit    int
		markdown string
		html     string
	)
	err := s.Do(func(c *calculator.Calculator) error {
		now := time.Now()
		entries, limit = c.History.Entries(), c.History.Limit()
		markdown = c.History.Markdown(now)
		if format == "html" {
			var err error
			html, err = c.History.HTML(now)
			return err
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	switch format {
	case "", "json":
		writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries, Limit: limit})
	case "md", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, markdown)
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, html)
	default:
		http.Error(w, fmt.Sprintf("Unknown format: %s", format), http.StatusBadRequest)
	}
}

func (h *Handler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	var req IDRequest
	if err := decode(r, &req, "ID"); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s, ok := h.lookup(w, req.ID)
	if !ok {
		return
	}
	var st calculator.State
	s.Do(func(c *calculator.Calculator) error {
		c.History.Clear()
		st = c.State()
		return nil
	})
	writeJSON(w, http.StatusOK, StateResponse{State: st})
}

