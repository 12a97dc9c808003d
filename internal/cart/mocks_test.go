package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/internal/storage"
)

// mockCatalog implements Catalog for testing
type mockCatalog struct {
	m          sync.RWMutex
	products   map[int64]domain.Product
	stock      map[int64]int
	productErr error
	stockErr   error
	stockCalls int
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		products: map[int64]domain.Product{
			1: {ID: 1, Name: "Tênis de Caminhada Leve Confortável", Price: 179.9, ImageURL: "https://img/1.jpg"},
			2: {ID: 2, Name: "Tênis VR Caminhada Confortável", Price: 139.9, ImageURL: "https://img/2.jpg"},
			3: {ID: 3, Name: "Tênis Adidas Duramo Lite 2.0", Price: 219.9, ImageURL: "https://img/3.jpg"},
		},
		stock: map[int64]int{1: 10, 2: 1, 3: 0},
	}
}

func (m *mockCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.productErr != nil {
		return nil, m.productErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, errors.New("catalog: not found")
	}
	return &p, nil
}

func (m *mockCatalog) GetStock(_ context.Context, id int64) (*domain.Stock, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.stockCalls++
	if m.stockErr != nil {
		return nil, m.stockErr
	}
	amount, ok := m.stock[id]
	if !ok {
		return nil, errors.New("catalog: not found")
	}
	return &domain.Stock{ID: id, Amount: amount}, nil
}

func (m *mockCatalog) setStock(id int64, amount int) {
	m.m.Lock()
	defer m.m.Unlock()
	m.stock[id] = amount
}

// nilCatalog answers without data, like an API returning an empty body
type nilCatalog struct{}

func (nilCatalog) GetProduct(context.Context, int64) (*domain.Product, error) { return nil, nil }

func (nilCatalog) GetStock(context.Context, int64) (*domain.Stock, error) { return nil, nil }

// failingKV wraps a MemoryStore and fails writes while setErr is set
type failingKV struct {
	*storage.MemoryStore
	m      sync.RWMutex
	setErr error
	getErr error
	sets   int
}

func newFailingKV() *failingKV {
	return &failingKV{MemoryStore: storage.NewMemoryStore()}
}

func (f *failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	f.m.RLock()
	defer f.m.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	f.m.Lock()
	defer f.m.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.sets++
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *failingKV) setCount() int {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.sets
}

type mockPublisher struct {
	m      sync.Mutex
	events []events.CartUpdated
	err    error
}

func (p *mockPublisher) CartUpdated(_ context.Context, e events.CartUpdated) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) published() []events.CartUpdated {
	p.m.Lock()
	defer p.m.Unlock()
	return append([]events.CartUpdated(nil), p.events...)
}

// gatedKV holds the first Set until release is closed
type gatedKV struct {
	*storage.MemoryStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedKV() *gatedKV {
	return &gatedKV{
		MemoryStore: storage.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (g *gatedKV) Set(ctx context.Context, key string, value []byte) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.MemoryStore.Set(ctx, key, value)
}
