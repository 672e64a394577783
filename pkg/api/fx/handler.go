package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ibc_tool/pkg/core/calculator"
	coreFX "ibc_tool/pkg/core/fx"
	"ibc_tool/pkg/core/session"
	"ibc_tool/pkg/core/utils"
)

type Currency struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

type RatesResponse struct {
	SnapshotID string     `json:"snapshot_id"`
	Base       string     `json:"base"`
	Currencies []Currency `json:"currencies"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	Loading    bool       `json:"loading"`
	From       string     `json:"from"`
	To         string     `json:"to"`
}

type ConvertRequest struct {
	ID     string   `json:"id"`
	From   string   `json:"from"`
	To     string   `json:"to"`
	Amount *float64 `json:"amount,omitempty"`
}

type ConvertResponse struct {
	Amount    float64          `json:"amount"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Formatted string           `json:"formatted"`
	State     calculator.State `json:"state"`
}

type RefreshRequest struct {
	ID    string `json:"id"`
	Async bool   `json:"async,omitempty"`
}

// Handler serves the exchange-rate endpoints of a session
type Handler struct {
	Sessions *session.Manager
}

// NewHandler creates a new fx handler
func NewHandler(sessions *session.Manager) *Handler {
	return &Handler{Sessions: sessions}
}

// Register mounts every endpoint on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/fx/rates", h.HandleRates)
	mux.HandleFunc("/api/fx/convert", h.HandleConvert)
	mux.HandleFunc("/api/fx/refresh", h.HandleRefresh)
}

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

func decode(r *http.Request, req interface{}, required ...string) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<10))
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

func ratesResponse(c *calculator.Calculator) RatesResponse {
	snap := c.Rates.Snapshot()
	from, to := c.Currencies()
	resp := RatesResponse{
		SnapshotID: snap.ID.String(),
		Base:       coreFX.BaseCurrency,
		Loading:    c.Rates.IsLoading(),
		From:       from,
		To:         to,
	}
	for _, code := range snap.Codes() {
		resp.Currencies = append(resp.Currencies, Currency{
			Code: code,
			Name: coreFX.CurrencyName(code),
			Rate: snap.Rates[code],
		})
	}
	if !snap.UpdatedAt.IsZero() {
		at := snap.UpdatedAt
		resp.UpdatedAt = &at
	}
	return resp
}

func (h *Handler) HandleRates(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	s, err := h.Sessions.Get(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	var resp RatesResponse
	s.Do(func(c *calculator.Calculator) error {
		resp = ratesResponse(c)
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

// HandleConvert selects the currency pair and converts amount, or the
// current display when amount is omitted
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	var req ConvertRequest
	if err := decode(r, &req, "ID", "From", "To"); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s, err := h.Sessions.Get(req.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var resp ConvertResponse
	err = s.Do(func(c *calculator.Calculator) error {
		if err := c.SelectCurrencies(req.From, req.To); err != nil {
			return err
		}
		if req.Amount != nil {
			c.Enter(*req.Amount)
		}
		resp.Amount = c.Value()
		if err := c.ConvertDisplay(); err != nil {
			return err
		}
		resp.From, resp.To = c.Currencies()
		resp.Formatted = c.Display()
		resp.State = c.State()
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleRefresh runs a simulated refresh. With async set it returns 202 at
// once and the new rates show up in later /api/fx/rates calls.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	var req RefreshRequest
	if err := decode(r, &req, "ID"); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s, err := h.Sessions.Get(req.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var calc *calculator.Calculator
	s.Do(func(c *calculator.Calculator) error {
		calc = c
		return nil
	})
	if calc.Rates.IsLoading() {
		http.Error(w, coreFX.ErrRefreshInProgress.Error(), http.StatusConflict)
		return
	}

	if req.Async {
		done := calc.RefreshRatesAsync(context.Background())
		go func() {
			if res := <-done; res.Err != nil {
				fmt.Printf("[WARNING] Async refresh for %s failed: %v\n", req.ID, res.Err)
			}
		}()
		var resp RatesResponse
		s.Do(func(c *calculator.Calculator) error {
			resp = ratesResponse(c)
			return nil
		})
		writeJSON(w, http.StatusAccepted, resp)
		return
	}

	// The table has its own lock, so the session stays usable while waiting
	if _, err := calc.RefreshRates(r.Context()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, coreFX.ErrRefreshInProgress) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	var resp RatesResponse
	s.Do(func(c *calculator.Calculator) error {
		resp = ratesResponse(c)
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}
