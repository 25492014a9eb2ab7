package stubserver

import (
	"errors"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/hiredesk-session/internal/config"
	"github.com/spec-kit/hiredesk-session/internal/observability"
	apperrors "github.com/spec-kit/hiredesk-session/pkg/util"
)

// NewApp assembles the stub's fiber application: recovery and error
// mapping, request logging, and the three auth routes.
func NewApp(cfg config.StubConfig, accounts AccountRegistry, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))

	issuer := NewIssuer(cfg.JWTSecret, cfg.TokenTTL())
	handler := NewHandler(accounts, issuer, cfg.BcryptCost, logger)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/signup", handler.SignUp)
	authGroup.Post("/signin", handler.SignIn)
	authGroup.Post("/logout", handler.Logout)

	return app
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				var fiberErr *fiber.Error
				if errors.As(err, &fiberErr) {
					metrics.RecordError(c.Path(), c.Method(), "BAD_REQUEST")
					c.Status(fiberErr.Code)
					_ = c.JSON(fiber.Map{"error": fiber.Map{"message": fiberErr.Message}})
					err = nil
					return
				}

				domainErr := apperrors.ToDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}})
				err = nil
			}
		}()
		return c.Next()
	}
}
