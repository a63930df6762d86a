package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eugenenazirov/example-backend/internal/models"
)

var (
	// ErrNotFound indicates no record exists for the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID indicates a record with the same id is already stored.
	ErrDuplicateID = errors.New("record id already exists")
)

var defaultCustomers = []models.B2CCustomer{
	{ID: 1, Name: "Alice", Email: ""},
	{ID: 2, Name: "Bob", Email: ""},
}

var defaultProducts = []models.Product{
	{ID: 1, Name: "Mechanical Keyboard"},
	{ID: 2, Name: "Wireless Mouse"},
	{ID: 3, Name: "USB-C Hub"},
}

var defaultOrders = []models.Order{
	{ID: 1, CustomerID: 1, ProductIDs: []int{1, 3}},
}

// Store provides read access to records keyed by integer id.
type Store[T any] interface {
	Get(id int) (T, error)
	List() ([]T, error)
	Find(match func(T) bool) ([]T, error)
}

// MemoryStore keeps records in insertion order and guards access with a RWMutex.
type MemoryStore[T any] struct {
	mu    sync.RWMutex
	key   func(T) int
	order []int
	items map[int]T
}

// NewMemoryStore creates a store keyed by key and inserts the seed records in order.
func NewMemoryStore[T any](key func(T) int, seed ...T) (*MemoryStore[T], error) {
	s := &MemoryStore[T]{
		key:   key,
		items: make(map[int]T, len(seed)),
	}
	for _, item := range seed {
		if err := s.Put(item); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewCustomerStore returns a store seeded with the default B2C customers.
func NewCustomerStore() *MemoryStore[models.B2CCustomer] {
	return mustStore(func(c models.B2CCustomer) int { return c.ID }, defaultCustomers)
}

// NewProductStore returns a store seeded with the default products.
func NewProductStore() *MemoryStore[models.Product] {
	return mustStore(func(p models.Product) int { return p.ID }, defaultProducts)
}

// NewOrderStore returns a store seeded with the default orders.
func NewOrderStore() *MemoryStore[models.Order] {
	return mustStore(func(o models.Order) int { return o.ID }, cloneOrders(defaultOrders))
}

// Put inserts a record; ids must be unique.
func (s *MemoryStore[T]) Put(item T) error {
	id := s.key(item)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	s.items[id] = item
	s.order = append(s.order, id)
	return nil
}

// Get returns the record stored under id.
func (s *MemoryStore[T]) Get(id int) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return item, nil
}

// List returns all records in insertion order.
func (s *MemoryStore[T]) List() ([]T, error) {
	return s.Find(nil)
}

// Find returns the records accepted by match, in insertion order. A nil
// match accepts every record.
func (s *MemoryStore[T]) Find(match func(T) bool) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if match == nil || match(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func mustStore[T any](key func(T) int, seed []T) *MemoryStore[T] {
	s, err := NewMemoryStore(key, seed...)
	if err != nil {
		panic(fmt.Sprintf("storage: invalid seed data: %v", err))
	}
	return s
}

func cloneOrders(src []models.Order) []models.Order {
	out := make([]models.Order, len(src))
	for i, order := range src {
		order.ProductIDs = append([]int(nil), order.ProductIDs...)
		out[i] = order
	}
	return out
}
