package config

import (
	"encoding/json"
	"net/http"

	"ibc_tool/pkg/core/calc"
	"ibc_tool/pkg/core/calculator"
	coreConfig "ibc_tool/pkg/core/config"
	"ibc_tool/pkg/core/fx"
	"ibc_tool/pkg/core/memory"
)

type Response struct {
	Config     *coreConfig.Config `json:"config"`
	Currencies []string           `json:"currencies"`
	Models     []string           `json:"models"`
	Functions  []string           `json:"functions"`
	MemoryKeys []memory.Key       `json:"memory_keys"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	Config *coreConfig.Config
}

// NewHandler creates a new config handler
func NewHandler(cfg *coreConfig.Config) *Handler {
	return &Handler{
		Config: cfg,
	}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	rates := fx.NewTable(h.Config.Rates())
	resp := Response{
		Config:     h.Config,
		Currencies: rates.Snapshot().Codes(),
		Models:     calculator.ModelNames(),
		Functions:  calc.UnaryNames(),
		MemoryKeys: memory.Keys(),
	}
	json.NewEncoder(w).Encode(resp)
}
