package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Data      interface{}         `json:"data,omitempty"`
	Error     string              `json:"error,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
	Timestamp string              `json:"timestamp"`
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func Timestamp() string {
	return time.Now().UTC().Format(timestampLayout)
}

func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: Timestamp(),
	})
}

func Fail(c *fiber.Ctx, status int, message string, fields map[string][]string) error {
	return c.Status(status).JSON(Envelope{
		Success:   false,
		Message:   message,
		Error:     message,
		Errors:    fields,
		Timestamp: Timestamp(),
	})
}
