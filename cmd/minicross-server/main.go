package main

import (
	"log"
	"net/http"
	"os"

	"github.com/minicross/minicross/internal/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("MINICROSS_DB")
	if dbPath == "" {
		dbPath = "minicross.db"
	}

	store, err := server.OpenStore(dbPath)
	if err != nil {
		log.Fatalf("open store %s: %v", dbPath, err)
	}
	defer store.Close()

	adminSecret := os.Getenv("MINICROSS_ADMIN_SECRET")
	if adminSecret == "" {
		log.Println("MINICROSS_ADMIN_SECRET not set, admin endpoints disabled")
	}

	srv := server.NewServer(store, server.LogSender{}, adminSecret)

	log.Printf("minicross server listening on http://localhost:%s", port)
	if err := http.ListenAndServe(":"+port, srv); err != nil {
		log.Fatal(err)
	}
}
