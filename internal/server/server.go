package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/elskow/homecook/internal/api"
	"github.com/elskow/homecook/internal/auth"
	"github.com/elskow/homecook/internal/config"
	"github.com/elskow/homecook/internal/nutrition"
	"github.com/elskow/homecook/internal/pantry"
	"github.com/elskow/homecook/internal/uploads"
)

const defaultBodyLimit = 10 * 1024 * 1024 // base64 photo uploads

type Server struct {
	config *config.AppConfig
	log    *zap.Logger
	app    *fiber.App
}

type Params struct {
	fx.In

	Config           *config.AppConfig
	Logger           *zap.Logger
	AuthHandler      *auth.Handler
	AuthMiddleware   *auth.Middleware
	PantryHandler    *pantry.Handler
	UploadsHandler   *uploads.Handler
	NutritionHandler *nutrition.Handler
}

func NewServer(p Params) *Server {
	bodyLimit := p.Config.HTTP.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:               "HomeCook",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ReadTimeout:           p.Config.HTTP.ReadTimeout,
		WriteTimeout:          p.Config.HTTP.WriteTimeout,
		ErrorHandler:          newErrorHandler(p.Logger),
	})

	app.Use(recover.New())
	app.Use(requestLogger(p.Logger))
	if p.Config.HTTP.EnableCORS {
		app.Use(cors.New(cors.Config{
			AllowOrigins: p.Config.HTTP.AllowOrigins,
		}))
	}

	server := &Server{
		config: p.Config,
		log:    p.Logger,
		app:    app,
	}

	server.registerRoutes(p)

	return server
}

func (s *Server) registerRoutes(p Params) {
	// Protected endpoints pass through the access gate; everything in
	// api.PublicEndpoints is reachable without a token.
	route := func(register func(path string, handlers ...fiber.Handler) fiber.Router, path string, handler fiber.Handler) {
		if api.PublicEndpoints[path] {
			register(path, handler)
			return
		}
		register(path, p.AuthMiddleware.RequireAuth, handler)
	}

	s.app.Get(api.Health, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	route(s.app.Post, api.AuthSignup, p.AuthHandler.Signup)
	route(s.app.Post, api.AuthRegister, p.AuthHandler.Signup)
	route(s.app.Post, api.AuthResendVerification, p.AuthHandler.ResendVerification)
	route(s.app.Post, api.AuthVerifyEmail, p.AuthHandler.VerifyEmail)
	route(s.app.Post, api.AuthLogin, p.AuthHandler.Login)
	route(s.app.Post, api.AuthForgotPassword, p.AuthHandler.ForgotPassword)
	route(s.app.Post, api.AuthResetPassword, p.AuthHandler.ResetPassword)
	route(s.app.Post, api.AuthProfile, p.AuthHandler.CompleteProfile)
	route(s.app.Get, api.AuthMe, p.AuthHandler.Me)

	route(s.app.Get, api.Pantry, p.PantryHandler.List)
	route(s.app.Post, api.Pantry, p.PantryHandler.Create)
	route(s.app.Delete, api.Pantry, p.PantryHandler.Delete)

	route(s.app.Post, api.Uploads, p.UploadsHandler.Create)
	route(s.app.Get, api.UploadByID, p.UploadsHandler.Get)

	route(s.app.Post, api.NutritionBarcode, p.NutritionHandler.LookupBarcode)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port)

	s.log.Info("Starting HTTP server",
		zap.String("address", addr),
		zap.Object("config", serverConfigToField(s.config)),
	)

	if err := s.app.Listen(addr); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// newErrorHandler renders the {"error": message} envelope. Anything that is
// not a fiber.Error is logged and collapsed into a generic 500 so no
// internal detail reaches the client.
func newErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		log.Error("unhandled request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		log.Info("http request", fields...)

		return err
	}
}

func serverConfigToField(config *config.AppConfig) zapcore.ObjectMarshaler {
	return zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("environment", os.Getenv("APP_ENV"))
		enc.AddInt("body_limit", config.HTTP.BodyLimit)
		enc.AddBool("cors_enabled", config.HTTP.EnableCORS)
		return nil
	})
}
