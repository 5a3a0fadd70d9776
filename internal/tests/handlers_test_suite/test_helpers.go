package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/auth"
	api "github.com/rogerio-castellano/product-catalog/internal/http"
	handler "github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

const basePath = "/bp"

var (
	token       string
	productRepo *repo.InMemoryProductRepository
	issuer      *auth.TokenIssuer
)

func init() {
	setupTestRepos("secret")
	r := newRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

// today is pinned so release dates in the fixtures stay in the future.
func today() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.Local)
}

func setupTestRepos(password string) {
	productRepo = repo.NewInMemoryProductRepository(repo.SeedProducts()...)
	handler.SetProductRepo(productRepo)

	userRepo := repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userRepo.CreateUser(models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         "admin",
	})

	issuer = auth.NewTokenIssuer("test-secret", time.Hour)
	handler.SetTokenIssuer(issuer)
	handler.SetClock(today)
}

func newRouter() http.Handler {
	return api.NewRouter(api.RouterConfig{BasePath: basePath, Issuer: issuer})
}

func resetProducts() {
	productRepo.Reset()
}

func validProduct(id string) handler.ProductRequest {
	return handler.ProductRequest{
		ID:          id,
		Name:        "Cuenta Joven",
		Description: "Cuenta de ahorros para estudiantes",
		Logo:        "https://example.com/logo.png",
		DateRelease: "2025-06-15",
	}
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.UserLogin{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, basePath+"/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func send(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, basePath+path, &body)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return send(r, http.MethodPost, "/products", p)
}

func decodeMessage(w *httptest.ResponseRecorder) string {
	var resp handler.MessageResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	return resp.Message
}
