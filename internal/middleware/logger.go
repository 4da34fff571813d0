package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gesso-pos/pkg/logger"
)

// RequestLogger attaches a request-scoped logger to the user context and logs
// every request once it completes.
func RequestLogger(log *logger.Logger) fiber.Handler {
	httpLog := log.WithComponent("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, requestID)

		reqLog := httpLog.With("request_id", requestID)
		c.SetUserContext(logger.WithLogger(c.UserContext(), reqLog))

		chainErr := c.Next()
		if chainErr != nil {
			// let the app error handler write the response so the status is final
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.IP(),
		}
		if userID, ok := c.Locals(LocalUserID).(string); ok {
			fields = append(fields, "user_id", userID)
		}

		status := c.Response().StatusCode()
		switch {
		case status >= fiber.StatusInternalServerError:
			reqLog.Errorw("http request", fields...)
		case status >= fiber.StatusBadRequest:
			reqLog.Warnw("http request", fields...)
		default:
			reqLog.Infow("http request", fields...)
		}
		return nil
	}
}
