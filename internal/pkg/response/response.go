package response

import "github.com/gofiber/fiber/v3"

// ErrorBody is the failure envelope. Error holds either a message string
// or a list of validation violations.
type ErrorBody struct {
	Error interface{} `json:"error"`
}

type MessageBody struct {
	Message string `json:"message"`
}

const (
	MessageBadRequest          = "bad request"
	MessageNotFound            = "not found"
	MessageMethodNotAllowed    = "method not allowed"
	MessageServiceUnavailable  = "service unavailable"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

func JSON(c fiber.Ctx, status int, data interface{}) error {
	return c.Status(normalizeStatus(status)).JSON(data)
}

func Message(c fiber.Ctx, status int, message string) error {
	return JSON(c, status, MessageBody{Message: message})
}

func Error(c fiber.Ctx, status int, payload interface{}) error {
	st := normalizeStatus(status)
	if payload == nil {
		payload = DefaultMessageForStatus(st)
	}
	if s, ok := payload.(string); ok && s == "" {
		payload = DefaultMessageForStatus(st)
	}
	return c.Status(st).JSON(ErrorBody{Error: payload})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func DefaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusMethodNotAllowed:
		return MessageMethodNotAllowed
	case fiber.StatusServiceUnavailable:
		return MessageServiceUnavailable
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
