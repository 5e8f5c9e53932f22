// Package apperr décrit les erreurs métier renvoyées par l'API et leur code HTTP.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindInvalidToken
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindInvalidToken, KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

func InvalidToken(msg string, err error) *Error {
	return &Error{Kind: KindInvalidToken, Message: msg, Err: err}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Erreur interne du serveur", Err: err}
}

// Response est le corps JSON de toute réponse d'erreur.
type Response struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// From convertit n'importe quelle erreur en statut HTTP et corps de réponse.
// Les erreurs non typées deviennent des erreurs internes sans détail.
func From(err error) (int, Response) {
	var e *Error
	if !errors.As(err, &e) {
		e = Internal(err)
	}
	return e.Kind.Status(), Response{Message: e.Message, Errors: e.Fields}
}

func Status(err error) int {
	status, _ := From(err)
	return status
}
