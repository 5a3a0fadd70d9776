package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	KindTransport Kind = iota
	KindNotFound
	KindConflict
	KindServer
	KindUnclassified
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	case KindUnclassified:
		return "unclassified"
	default:
		return "transport"
	}
}

// User-facing messages.
const (
	MsgUnexpected     = "Ha ocurrido un error inesperado"
	MsgBadRequest     = "Solicitud inválida"
	MsgNotFound       = "Recurso no encontrado"
	MsgInternalServer = "Error interno del servidor"
)

// Error is what every client operation returns on failure. Message is the
// translated, user-facing text.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a translated 404.
func IsNotFound(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == KindNotFound
}

// IsConflict reports whether err is a translated 400.
func IsConflict(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == KindConflict
}

// Message returns the user-facing text for any error, translating errors
// that did not come from this package as transport failures.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return MsgUnexpected
}

type errorBody struct {
	Message string `json:"message"`
}

// Translate maps an HTTP status and response body to an *Error. It is the
// only place where status codes become user-facing messages.
func Translate(status int, body []byte) *Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	switch {
	case status == http.StatusBadRequest:
		msg := eb.Message
		if msg == "" {
			msg = MsgBadRequest
		}
		return &Error{Kind: KindConflict, Status: status, Message: msg}
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: status, Message: MsgNotFound}
	case status >= http.StatusInternalServerError:
		return &Error{Kind: KindServer, Status: status, Message: MsgInternalServer}
	default:
		detail := eb.Message
		if detail == "" {
			detail = http.StatusText(status)
		}
		return &Error{Kind: KindUnclassified, Status: status, Message: fmt.Sprintf("Error %d: %s", status, detail)}
	}
}

// transportError wraps a network or decoding failure.
func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: MsgUnexpected, Err: err}
}
