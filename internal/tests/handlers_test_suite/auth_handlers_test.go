package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/product-catalog/internal/http/handlers"
)

func TestLoginHandler(t *testing.T) {
	r := newRouter()

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, basePath+"/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("Valid credentials", func(t *testing.T) {
		body, _ := json.Marshal(handler.UserLogin{Username: "admin", Password: "secret"})
		w := login(string(body))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		var resp handler.LoginResult
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode token response: %v", err)
		}
		if _, err := issuer.ParseToken(resp.Token); err != nil {
			t.Errorf("expected a valid token: %v", err)
		}
	})

	t.Run("Wrong password", func(t *testing.T) {
		body, _ := json.Marshal(handler.UserLogin{Username: "admin", Password: "nope"})
		if w := login(string(body)); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 Unauthorized, got %d", w.Code)
		}
	})

	t.Run("Unknown user", func(t *testing.T) {
		body, _ := json.Marshal(handler.UserLogin{Username: "ghost", Password: "secret"})
		if w := login(string(body)); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 Unauthorized, got %d", w.Code)
		}
	})

	t.Run("Missing password", func(t *testing.T) {
		body, _ := json.Marshal(handler.UserLogin{Username: "admin"})
		if w := login(string(body)); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 Bad Request, got %d", w.Code)
		}
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		if w := login(`{invalid`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 Bad Request, got %d", w.Code)
		}
	})
}

func TestProtectedRoute_InvalidToken(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodDelete, basePath+"/products/trj-crd-01", bytes.NewReader(nil))
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 Unauthorized, got %d", w.Code)
	}
	if exists, _ := productRepo.Exists("trj-crd-01"); !exists {
		t.Error("product must survive an unauthorized delete")
	}
}

func TestHealthHandler(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
}
