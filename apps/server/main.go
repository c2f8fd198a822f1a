package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"blackjack-lite/apps/server/internal/auth"
	"blackjack-lite/apps/server/internal/gateway"
	"blackjack-lite/apps/server/internal/session"
	"blackjack-lite/apps/server/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Printf("[Server] Loaded .env")
	}

	authService, authMode, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init auth manager: %v", err)
	}
	defer authService.Close()
	storeService, storeMode, err := store.NewServiceFromEnv(authMode)
	if err != nil {
		log.Fatalf("[Server] Failed to init store service: %v", err)
	}
	defer storeService.Close()

	sessions := session.NewManager(storeService)
	defer sessions.CloseAll()
	gw := gateway.New(sessions, authService)
	authHTTP := auth.NewHTTPHandler(authService)
	historyHTTP := store.NewHTTPHandler(authService, storeService)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	authHTTP.RegisterRoutes(mux)
	historyHTTP.RegisterRoutes(mux)

	addr := listenAddrFromEnv()
	log.Printf("[Server] Auth mode: %s", authMode)
	log.Printf("[Server] Store mode: %s", storeMode)
	log.Printf("[Server] Starting WebSocket server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

func listenAddrFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		return v
	}
	return ":8080"
}
