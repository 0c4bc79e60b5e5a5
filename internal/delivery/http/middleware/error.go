package middleware

import (
	"errors"

	"job-board/internal/pkg/apperror"
	"job-board/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// AppError is a failure a handler has already classified. Data, when
// set, replaces Message as the rendered error payload.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *zap.Logger
}

func NewErrorMiddleware(logger *zap.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.StackSkip("stack", 2),
				)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, payload := m.normalizeError(err)
		return response.Error(c, status, payload)
	}
}

// normalizeError renders AppError payloads as given. Anything
// unclassified becomes a generic 500 so internals never leak.
func (m *ErrorMiddleware) normalizeError(err error) (int, interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 {
			m.logger.Error("unclassified app error", zap.Error(err))
			return fiber.StatusInternalServerError, response.MessageInternalServerError
		}
		if status >= 500 {
			m.logServerError(err)
		}
		if appErr.Data != nil {
			return status, appErr.Data
		}
		return status, appErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status == fiber.StatusServiceUnavailable {
			return status, response.MessageServiceUnavailable
		}
		if status <= 0 || status >= 500 {
			m.logger.Error("fiber error", zap.Error(err))
			return fiber.StatusInternalServerError, response.MessageInternalServerError
		}
		return status, fiberErr.Message
	}

	m.logger.Error("unhandled error", zap.Error(err))
	return fiber.StatusInternalServerError, response.MessageInternalServerError
}

// logServerError records a classified 5xx with the stack captured where
// the failure was first wrapped.
func (m *ErrorMiddleware) logServerError(err error) {
	fields := []zap.Field{zap.Error(err)}
	if src, ok := apperror.From(err); ok {
		fields = append(fields, zap.String("kind", string(src.Kind)), zap.ByteString("stack", src.StackTrace()))
	}
	m.logger.Error("request failed", fields...)
}
