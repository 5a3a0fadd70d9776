// Package products holds the state behind the product list and the product
// form: cached data, derived views, loading flags and user feedback.
package products

import (
	"context"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/validation"
)

// Repository is the product API as seen by the list and the form.
// *client.Client implements it.
type Repository interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, p models.Product) (models.Product, error)
	Update(ctx context.Context, id string, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) error
	VerifyID(ctx context.Context, id string) (bool, error)
}

// Notifier shows user feedback. *toast.Notifier implements it.
type Notifier interface {
	Success(message string) int
	Error(message string) int
}

type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

const (
	PathList = "/products"
	PathNew  = "/products/new"
)

func EditPath(id string) string {
	return "/products/edit/" + id
}

// Order decides how a freshly loaded list is stored.
type Order int

const (
	// OrderAsReturned keeps the server order.
	OrderAsReturned Order = iota
	// OrderNewestFirst reverses the server order, which is oldest first.
	OrderNewestFirst
)

type options struct {
	log      logging.Logger
	now      func() time.Time
	order    Order
	debounce time.Duration
}

type Option func(*options)

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock sets the clock used by the release-date rule.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithOrder(order Order) Option {
	return func(o *options) { o.order = order }
}

// WithDebounce sets the quiet period of the id uniqueness check.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

func buildOptions(opts []Option) options {
	o := options{
		log:      logging.Nop(),
		now:      time.Now,
		order:    OrderAsReturned,
		debounce: validation.DefaultDebounce,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}
