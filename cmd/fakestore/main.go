package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/loganlanou/phishdesk/internal/storetest"
)

// Stand-in remote store for working on the editor without a real backend
func main() {
	addr := os.Getenv("FAKE_STORE_ADDR")
	if addr == "" {
		addr = ":3333"
	}

	slog.Info("fake template store listening", "addr", addr, "auth", os.Getenv("STORE_API_KEY") != "")
	if err := http.ListenAndServe(addr, storetest.New(os.Getenv("STORE_API_KEY")).Handler()); err != nil {
		slog.Error("fake store failed", "error", err)
		os.Exit(1)
	}
}
