package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/plateful/plateful-backend/config"
	"github.com/plateful/plateful-backend/internal/api"
	"github.com/plateful/plateful-backend/internal/middleware"
	"github.com/plateful/plateful-backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New builds the gin engine, wires the handlers, and prepares the HTTP
// server without starting it.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, imageStore service.IImageStore, mailer service.IMailer) *Server {
	router := gin.Default()
	router.Use(middleware.CORS())

	api.RegisterRoutes(router, db, redisClient, imageStore, mailer, cfg)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler: router,
		},
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
