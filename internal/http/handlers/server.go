package handlers

import (
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/auth"
	"github.com/rogerio-castellano/product-catalog/internal/logging"
	repo "github.com/rogerio-castellano/product-catalog/internal/repo"
)

var (
	productRepo repo.ProductRepository
	userRepo    repo.UserRepository
	tokenIssuer *auth.TokenIssuer
	logger      logging.Logger = logging.Nop()
	now                        = time.Now
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetTokenIssuer(i *auth.TokenIssuer) {
	tokenIssuer = i
}

func SetLogger(l logging.Logger) {
	logger = l
}

// SetClock replaces the clock used for release-date validation.
func SetClock(fn func() time.Time) {
	now = fn
}
