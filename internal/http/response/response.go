// Package response формирует JSON-ответы обработчиков в едином формате:
// {"message": ...} для ошибок и {"message": ..., "errors": [...]} для ошибок валидации.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
)

// MsgInternal сообщение клиенту при непредвиденной ошибке.
const MsgInternal = "internal error"

// ErrorResponse тело ответа с ошибкой.
type ErrorResponse struct {
	Message string   `json:"message" example:"Product not found"`
	Errors  []string `json:"errors,omitempty"`
}

// MessageResponse тело ответа с сообщением об успешной операции.
type MessageResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// Error возвращает ErrorResponse с сообщением msg.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Message: msg}
}

// Message возвращает MessageResponse.
func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// ValidationError описывает каждое нарушение правил валидации отдельной строкой.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", field))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid URL", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, err.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, err.Param()))
		case "gt", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, gtParam(err)))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is not valid", field))
		}
	}
	return ErrorResponse{Message: "Validation failed", Errors: msgs}
}

func gtParam(err validator.FieldError) string {
	if err.Tag() == "gte" {
		return "or equal to " + err.Param()
	}
	return err.Param()
}

// Status возвращает HTTP-статус для ошибки по её виду из apperr.
func Status(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromError пишет ответ для ошибки сервиса. Текст непредвиденных ошибок
// попадает только в лог, клиент получает MsgInternal.
func FromError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status := Status(err)
	msg, ok := apperr.Message(err)
	if status == http.StatusInternalServerError || !ok {
		if status == http.StatusInternalServerError {
			log.Error("request failed", sl.Err(err))
			msg = MsgInternal
		} else {
			msg = http.StatusText(status)
		}
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// Fail пишет ответ с ошибкой status и сообщением msg.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// JSON пишет тело v со статусом status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}
