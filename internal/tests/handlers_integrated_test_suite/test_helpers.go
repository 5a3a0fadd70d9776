package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/auth"
	"github.com/rogerio-castellano/product-catalog/internal/db"
	api "github.com/rogerio-castellano/product-catalog/internal/http"
	handler "github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

const basePath = "/bp"

var (
	token       string
	productRepo *repo.PostgresProductRepository
	issuer      *auth.TokenIssuer
	limiter     *rl.Limiter
	database    *sql.DB
)

func setup(dsn, password string) error {
	var err error
	database, err = db.Connect(dsn)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	if err := db.RunMigrations(context.Background(), database); err != nil {
		return err
	}

	productRepo = repo.NewPostgresProductRepository(database)
	handler.SetProductRepo(productRepo)

	userRepo := repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userRepo.CreateUser(models.User{Username: "admin", PasswordHash: string(hash), Role: "admin"})

	issuer = auth.NewTokenIssuer("integration-secret", time.Hour)
	handler.SetTokenIssuer(issuer)
	handler.SetClock(func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.Local) })

	limiter = rl.New(100, 100, time.Minute)

	token, err = generateToken(newRouter(), "admin", password)
	if err != nil {
		return fmt.Errorf("error generating token: %w", err)
	}
	return nil
}

func newRouter() http.Handler {
	return api.NewRouter(api.RouterConfig{BasePath: basePath, Issuer: issuer, Limiter: limiter})
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

func clearAllProducts() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "TRUNCATE TABLE products")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate products table: %w", err))
	}
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

func productRequest(id, name string) handler.ProductRequest {
	return handler.ProductRequest{
		ID:          id,
		Name:        name,
		Description: "Producto de prueba de integración",
		Logo:        "https://example.com/logo.png",
		DateRelease: "2025-06-15",
	}
}
