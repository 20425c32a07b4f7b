package server

import (
	"context"
	"fmt"
	"time"

	"github.com/VladKovDev/tguser-api/internal/auth"
	"github.com/VladKovDev/tguser-api/internal/config"
	"github.com/VladKovDev/tguser-api/internal/delivery/http/handler"
	"github.com/VladKovDev/tguser-api/internal/delivery/http/middleware"
	"github.com/VladKovDev/tguser-api/internal/services"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

type Server struct {
	app             *fiber.App
	addr            string
	shutdownTimeout time.Duration
	logger          logger.Logger
}

func New(cfg config.ServerConfig, users *services.TelegramUserService, authSvc *auth.Service, log logger.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "tguser-api",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          handler.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	bearer := middleware.Bearer(authSvc)

	app.Get("/healthz", handler.Health(users))

	authHandler := handler.NewAuthHandler(authSvc)
	app.Post("/authentication_token", authHandler.Login)
	app.Delete("/authentication_token", bearer, authHandler.Logout)

	handler.NewTelegramUserHandler(users, log).Register(app.Group("/telegram_users", bearer))

	return &Server{
		app:             app,
		addr:            cfg.Addr(),
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          log,
	}
}

// App exposes the fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.addr))

	errChan := make(chan error, 1)

	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}
