package callback

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rikkicom/call2fa-go/internal/config"
)

// Server wraps the Fiber application serving the callback endpoint.
type Server struct {
	app  *fiber.App
	port int
}

// NewServer constructs the HTTP server and registers all routes.
func NewServer(cfg *config.Config, handler *Handler) *Server {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	handler.Register(app)

	return &Server{app: app, port: cfg.ListenPort}
}

// Start begins serving HTTP traffic until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(ctx)
}
