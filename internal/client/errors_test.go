package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"bad request with detail", http.StatusBadRequest, `{"message":"El ID del producto ya existe"}`, KindConflict, "El ID del producto ya existe"},
		{"bad request without detail", http.StatusBadRequest, ``, KindConflict, MsgBadRequest},
		{"not found", http.StatusNotFound, `{"message":"Producto no encontrado"}`, KindNotFound, MsgNotFound},
		{"internal", http.StatusInternalServerError, `boom`, KindServer, MsgInternalServer},
		{"bad gateway", http.StatusBadGateway, ``, KindServer, MsgInternalServer},
		{"unauthorized", http.StatusUnauthorized, `{"message":"missing or invalid token"}`, KindUnclassified, "Error 401: missing or invalid token"},
		{"too many requests", http.StatusTooManyRequests, ``, KindUnclassified, "Error 429: Too Many Requests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Translate(tt.status, []byte(tt.body))
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.status, err.Status)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestKindHelpers(t *testing.T) {
	notFound := fmt.Errorf("loading: %w", Translate(http.StatusNotFound, nil))
	conflict := Translate(http.StatusBadRequest, nil)

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsConflict(notFound))
	assert.True(t, IsConflict(conflict))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, MsgNotFound, Message(Translate(http.StatusNotFound, nil)))
	assert.Equal(t, MsgUnexpected, Message(errors.New("dial tcp: refused")))

	cause := errors.New("connection reset")
	terr := transportError(cause)
	assert.Equal(t, KindTransport, terr.Kind)
	assert.ErrorIs(t, terr, cause)
	assert.Equal(t, "transport", terr.Kind.String())
}
