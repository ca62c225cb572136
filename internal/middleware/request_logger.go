package middleware

import (
	"log/slog"
	"time"

	"feira/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestLogger puts a request-scoped logger into the user context and emits
// one line per request. It must run after the requestid middleware and
// before recover, so panics reach it as errors.
func RequestLogger(base *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := base.With(
			"method", c.Method(),
			"url", c.OriginalURL(),
			"remote_ip", c.IP(),
			"user_agent", c.Get(fiber.HeaderUserAgent),
		)
		if rid, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok && rid != "" {
			l = l.With("request_id", rid)
		}
		c.SetUserContext(logging.IntoContext(c.UserContext(), l))

		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the app's ErrorHandler write the response so the status is final.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		dur := time.Since(start)
		status := c.Response().StatusCode()

		switch {
		case err != nil || status >= 500:
			l.Error("request completed", "path", c.Route().Path, "status", status, "duration_ms", dur.Milliseconds(), "error", errStr(err))
		case status >= 400:
			l.Warn("request completed", "path", c.Route().Path, "status", status, "duration_ms", dur.Milliseconds())
		default:
			l.Info("request completed", "path", c.Route().Path, "status", status, "duration_ms", dur.Milliseconds(), "bytes", len(c.Response().Body()))
		}
		return nil
	}
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
