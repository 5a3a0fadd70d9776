package products

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rogerio-castellano/product-catalog/internal/client"
	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/store"
)

const DefaultPageSize = 5

// PageSizes are the page sizes offered to the user.
var PageSizes = []int{5, 10, 20}

var (
	ErrNoDeletePending  = errors.New("no delete is awaiting confirmation")
	ErrDeleteInProgress = errors.New("a delete is already in progress")
	ErrInvalidPageSize  = errors.New("page size must be positive")
)

type DeletePhase int

const (
	DeleteIdle DeletePhase = iota
	DeleteConfirmPending
	Deleting
)

func (p DeletePhase) String() string {
	switch p {
	case DeleteConfirmPending:
		return "confirm_pending"
	case Deleting:
		return "deleting"
	default:
		return "idle"
	}
}

// Deletion is the delete confirmation flow. Target is set while the phase
// is not DeleteIdle.
type Deletion struct {
	Phase  DeletePhase
	Target *models.Product
}

// FilterProducts keeps the products whose name or description contains
// term, ignoring case. An empty term keeps everything.
func FilterProducts(products []models.Product, term string) []models.Product {
	if term == "" {
		return products
	}
	term = strings.ToLower(term)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return out
}

// Paginate returns the first n products.
func Paginate(products []models.Product, n int) []models.Product {
	if n < 0 {
		n = 0
	}
	if n > len(products) {
		n = len(products)
	}
	return products[:n:n]
}

// ListState backs the product list page. Reads go through the signals;
// every mutation goes through a method.
type ListState struct {
	repo   Repository
	toasts Notifier
	nav    Navigator
	log    logging.Logger
	order  Order

	Products     *store.Signal[[]models.Product]
	SearchTerm   *store.Signal[string]
	PageSize     *store.Signal[int]
	IsLoading    *store.Signal[bool]
	ErrorMessage *store.Signal[string]
	Deletion     *store.Signal[Deletion]

	Filtered  *store.Signal[[]models.Product]
	Paginated *store.Signal[[]models.Product]
	Total     *store.Signal[int]

	mu sync.Mutex
}

func NewListState(repo Repository, toasts Notifier, nav Navigator, opts ...Option) *ListState {
	o := buildOptions(opts)
	if nav == nil {
		nav = nopNavigator{}
	}

	s := &ListState{
		repo:         repo,
		toasts:       toasts,
		nav:          nav,
		log:          o.log,
		order:        o.order,
		Products:     store.NewSignal([]models.Product{}),
		SearchTerm:   store.NewSignal(""),
		PageSize:     store.NewSignal(DefaultPageSize),
		IsLoading:    store.NewSignal(false),
		ErrorMessage: store.NewSignal(""),
		Deletion:     store.NewSignal(Deletion{}),
	}

	s.Filtered = store.Computed(func() []models.Product {
		return FilterProducts(s.Products.Get(), s.SearchTerm.Get())
	}, s.Products, s.SearchTerm)
	s.Paginated = store.Computed(func() []models.Product {
		return Paginate(s.Filtered.Get(), s.PageSize.Get())
	}, s.Filtered, s.PageSize)
	s.Total = store.Computed(func() int {
		return len(s.Filtered.Get())
	}, s.Filtered)
	return s
}

// Load fetches the whole list and replaces the cache. On failure the list
// is left empty and ErrorMessage holds the translated message.
func (s *ListState) Load(ctx context.Context) error {
	s.IsLoading.Set(true)
	s.ErrorMessage.Set("")
	defer s.IsLoading.Set(false)

	products, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to load products", "error", err)
		s.Products.Set([]models.Product{})
		s.ErrorMessage.Set(client.Message(err))
		return err
	}

	if s.order == OrderNewestFirst {
		products = slices.Clone(products)
		slices.Reverse(products)
	}
	s.Products.Set(products)
	return nil
}

// Refresh is a user-requested Load.
func (s *ListState) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *ListState) Search(term string) {
	s.SearchTerm.Set(term)
}

func (s *ListState) SetPageSize(n int) error {
	if n <= 0 {
		return ErrInvalidPageSize
	}
	s.PageSize.Set(n)
	return nil
}

func (s *ListState) AddProduct() {
	s.nav.Navigate(PathNew)
}

func (s *ListState) EditProduct(id string) {
	s.nav.Navigate(EditPath(id))
}

// RequestDelete asks for confirmation before deleting p. A new request
// replaces a pending one.
func (s *ListState) RequestDelete(p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Deletion.Get().Phase == Deleting {
		return ErrDeleteInProgress
	}
	target := p
	s.Deletion.Set(Deletion{Phase: DeleteConfirmPending, Target: &target})
	return nil
}

// CancelDelete discards a pending confirmation. It does nothing otherwise.
func (s *ListState) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Deletion.Get().Phase == DeleteConfirmPending {
		s.Deletion.Set(Deletion{})
	}
}

// ConfirmDelete deletes the pending target. On success it shows a toast and
// reloads the whole list; on failure the cached list is left untouched.
func (s *ListState) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	d := s.Deletion.Get()
	if d.Phase != DeleteConfirmPending || d.Target == nil {
		s.mu.Unlock()
		return ErrNoDeletePending
	}
	target := *d.Target
	s.Deletion.Set(Deletion{Phase: Deleting, Target: &target})
	s.mu.Unlock()

	err := s.repo.Delete(ctx, target.ID)

	s.mu.Lock()
	s.Deletion.Set(Deletion{})
	s.mu.Unlock()

	if err != nil {
		msg := client.Message(err)
		s.log.Error(ctx, "failed to delete product", "id", target.ID, "error", err)
		s.ErrorMessage.Set(msg)
		s.toasts.Error(msg)
		return err
	}

	s.log.Info(ctx, "product deleted", "id", target.ID)
	s.toasts.Success(fmt.Sprintf("Producto \"%s\" eliminado exitosamente", target.Name))
	return s.Load(ctx)
}
