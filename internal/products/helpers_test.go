package products

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/client"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

// fakeRepo serves products from an in-memory repository and counts calls.
type fakeRepo struct {
	store *repo.InMemoryProductRepository

	mu          sync.Mutex
	listErr     error
	getErr      error
	saveErr     error
	deleteErr   error
	verifyErr   error
	verifyDelay time.Duration

	listCalls   atomic.Int32
	verifyCalls atomic.Int32
	saveCalls   atomic.Int32
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{store: repo.NewInMemoryProductRepository(repo.SeedProducts()...)}
}

func (f *fakeRepo) errFor(e *error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *e
}

func (f *fakeRepo) List(ctx context.Context) ([]models.Product, error) {
	f.listCalls.Add(1)
	if err := f.errFor(&f.listErr); err != nil {
		return nil, err
	}
	return f.store.GetAll()
}

func (f *fakeRepo) Get(ctx context.Context, id string) (models.Product, error) {
	if err := f.errFor(&f.getErr); err != nil {
		return models.Product{}, err
	}
	p, err := f.store.GetByID(id)
	if err != nil {
		return models.Product{}, client.Translate(404, nil)
	}
	return p, nil
}

func (f *fakeRepo) Create(ctx context.Context, p models.Product) (models.Product, error) {
	f.saveCalls.Add(1)
	if err := f.errFor(&f.saveErr); err != nil {
		return models.Product{}, err
	}
	out, err := f.store.Create(p)
	if err != nil {
		return models.Product{}, client.Translate(400, []byte(`{"message":"El ID del producto ya existe"}`))
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, p models.Product) (models.Product, error) {
	f.saveCalls.Add(1)
	if err := f.errFor(&f.saveErr); err != nil {
		return models.Product{}, err
	}
	p.ID = id
	out, err := f.store.Update(p)
	if err != nil {
		return models.Product{}, client.Translate(404, nil)
	}
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if err := f.errFor(&f.deleteErr); err != nil {
		return err
	}
	if err := f.store.Delete(id); err != nil {
		return client.Translate(404, nil)
	}
	return nil
}

func (f *fakeRepo) VerifyID(ctx context.Context, id string) (bool, error) {
	f.verifyCalls.Add(1)
	f.mu.Lock()
	delay, err := f.verifyDelay, f.verifyErr
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	if err != nil {
		return false, err
	}
	return f.store.Exists(id)
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

// fixedNow is 2025-06-01 10:00 local time.
func fixedNow() time.Time {
	return time.Date(2025, time.June, 1, 10, 0, 0, 0, time.Local)
}
