package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/google/uuid"
)

// ============================================================
// Logger Middleware
// ============================================================

const RequestIDHeader = "X-Request-ID"

// Logger возвращает настроенный middleware для логирования запросов
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} | req=${respHeader:X-Request-ID}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

// RequestID сохраняет входящий X-Request-ID или выдаёт новый uuid.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Locals(RequestIDHeader, id)
		return c.Next()
	}
}

// GetRequestID возвращает id, выданный RequestID, или пустую строку.
func GetRequestID(c fiber.Ctx) string {
	if id, ok := c.Locals(RequestIDHeader).(string); ok {
		return id
	}
	return ""
}
