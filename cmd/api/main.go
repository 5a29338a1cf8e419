package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plateful/plateful-backend/config"
	"github.com/plateful/plateful-backend/internal/database"
	"github.com/plateful/plateful-backend/internal/server"
	"github.com/plateful/plateful-backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional; the server runs without rate limiting if it is down.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: failed to connect to Redis: %v", err)
		redisClient = nil
	}

	imageStore, err := service.NewImageStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	mailer := service.NewMailer(cfg)

	srv := server.New(cfg, db, redisClient, imageStore, mailer)

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
