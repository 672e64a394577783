package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"ibc_tool/pkg/api/calculator"
	"ibc_tool/pkg/api/config"
	"ibc_tool/pkg/api/fx"
	coreCalc "ibc_tool/pkg/core/calculator"
	coreConfig "ibc_tool/pkg/core/config"
	"ibc_tool/pkg/core/session"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfg, err := coreConfig.LoadFromEnv()
	if err != nil {
		fmt.Printf("[FATAL] Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	sessions := session.NewManager(func() *coreCalc.Calculator { return cfg.NewCalculator() }, cfg.SessionTTL())
	sessions.StartCleanup(context.Background(), cfg.SweepInterval())
	fmt.Printf("[SESSION] Idle sessions expire after %v\n", cfg.SessionTTL())

	mux := http.DefaultServeMux

	// Config endpoints
	configHandler := config.NewHandler(cfg)
	mux.HandleFunc("/api/config", configHandler.HandleConfig)

	// Calculator session endpoints
	calculator.NewHandler(sessions).Register(mux)

	// Exchange-rate endpoints
	fx.NewHandler(sessions).Register(mux)

	fmt.Printf("API server starting on %s...\n", cfg.Addr)
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/session")
	fmt.Println("  - GET  /api/session/state")
	fmt.Println("  - POST /api/session/press")
	fmt.Println("  - POST /api/session/memory")
	fmt.Println("  - POST /api/session/model")
	fmt.Println("  - POST /api/session/eval")
	fmt.Println("  - GET  /api/session/history  (json, md, html)")
	fmt.Println("  - POST /api/session/history/clear")
	fmt.Println("  - GET  /api/fx/rates")
	fmt.Println("  - POST /api/fx/convert")
	fmt.Println("  - POST /api/fx/refresh")

	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
