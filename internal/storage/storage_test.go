package storage

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/eugenenazirov/example-backend/internal/models"
)

func TestCustomerStoreReturnsSeedInInsertionOrder(t *testing.T) {
	t.Parallel()

	store := NewCustomerStore()

	got, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.B2CCustomer{
		{ID: 1, Name: "Alice", Email: ""},
		{ID: 2, Name: "Bob", Email: ""},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// ensure mutation safety
	got[0].Name = "Mallory"
	again, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again[0].Name != "Alice" {
		t.Fatalf("expected defensive copy, got %v", again)
	}
}

func TestGetReturnsRecordOrNotFound(t *testing.T) {
	t.Parallel()

	store := NewCustomerStore()

	for _, id := range []int{1, 2} {
		customer, err := store.Get(id)
		if err != nil {
			t.Fatalf("unexpected error for id %d: %v", id, err)
		}
		if customer.ID != id {
			t.Fatalf("expected id %d, got %d", id, customer.ID)
		}
	}

	for _, id := range []int{0, -1, 3, 1000} {
		if _, err := store.Get(id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for id %d, got %v", id, err)
		}
	}
}

func TestPutRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	key := func(p models.Product) int { return p.ID }
	if _, err := NewMemoryStore(key, models.Product{ID: 1}, models.Product{ID: 1}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	store := NewProductStore()
	if err := store.Put(models.Product{ID: 9, Name: "Monitor"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, _ := store.List()
	if items[len(items)-1].ID != 9 {
		t.Fatalf("expected new product to be appended, got %v", items)
	}
}

func TestFindFiltersInOrder(t *testing.T) {
	t.Parallel()

	store := NewProductStore()
	got, err := store.Find(func(p models.Product) bool { return p.ID != 2 })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected products: %v", got)
	}
}

func TestOrderStoreDoesNotShareSeedSlices(t *testing.T) {
	t.Parallel()

	first := NewOrderStore()
	order, err := first.Get(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order.ProductIDs[0] = 42

	second := NewOrderStore()
	fresh, _ := second.Get(1)
	if fresh.ProductIDs[0] == 42 {
		t.Fatalf("expected seed data to be isolated between stores")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewProductStore()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			if err := store.Put(models.Product{ID: 100 + offset}); err != nil {
				t.Errorf("Put failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if _, err := store.List(); err != nil {
				t.Errorf("List failed: %v", err)
			}
		}()
	}

	wg.Wait()

	items, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3+32 {
		t.Fatalf("expected %d products, got %d", 3+32, len(items))
	}
}
