// Package apperr описывает виды доменных ошибок, которые транспортный слой
// переводит в HTTP-статусы.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("unavailable")
)

// Error доменная ошибка с сообщением для клиента.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Unwrap позволяет проверять вид ошибки через errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// New создаёт ошибку заданного вида.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func NotFound(msg string) *Error     { return New(ErrNotFound, msg) }
func Conflict(msg string) *Error     { return New(ErrConflict, msg) }
func Validation(msg string) *Error   { return New(ErrValidation, msg) }
func Unauthorized(msg string) *Error { return New(ErrUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(ErrForbidden, msg) }
func Unavailable(msg string) *Error  { return New(ErrUnavailable, msg) }

// Message возвращает клиентское сообщение первой доменной ошибки в цепочке.
func Message(err error) (string, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Msg, true
	}
	return "", false
}
