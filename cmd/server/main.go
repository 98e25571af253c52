// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gurkanbulca/taskdeck/internal/config"
	"github.com/gurkanbulca/taskdeck/internal/database"
	"github.com/gurkanbulca/taskdeck/internal/handler"
	"github.com/gurkanbulca/taskdeck/internal/repository"
	"github.com/gurkanbulca/taskdeck/internal/session"
	"github.com/gurkanbulca/taskdeck/internal/web"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsDevelopment() {
		log.Println("Running in development mode")
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	sessions := session.NewManager(cfg.Session.Lifetime)

	srv := handler.NewServer(users, tasks, sessions, renderer, cfg.Session.CookieName)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      srv.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
