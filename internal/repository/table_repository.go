package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	"pos_manager/internal/models"
	"pos_manager/internal/storage"
)

type TableRepository interface {
	Create(table *models.Table) error
	GetByID(id string) (*models.Table, error)
	GetAll() ([]models.Table, error)
	// FindByOrderID is the reverse lookup used when a checkout completes;
	// ErrNotFound means the order has no table.
	FindByOrderID(orderID string) (*models.Table, error)
	// SetOrder links an order to a table. A table already holding a
	// different order is rejected with ErrTableOccupied; linking the same
	// order again is a no-op success.
	SetOrder(tableID, orderID string) error
	ClearOrder(tableID string) error
}

type tableRepository struct {
	mu     sync.RWMutex
	tables map[string]*models.Table
	store  storage.Store
}

func NewTableRepository(store storage.Store) (TableRepository, error) {
	r := &tableRepository{
		tables: make(map[string]*models.Table),
		store:  store,
	}
	data, err := store.Load(context.Background(), storage.CollectionTables)
	if err != nil {
		return nil, fmt.Errorf("failed to load tables: %w", err)
	}
	if data != nil {
		var tables []models.Table
		if err := json.Unmarshal(data, &tables); err != nil {
			return nil, fmt.Errorf("failed to decode tables: %w", err)
		}
		for i := range tables {
			t := tables[i]
			r.tables[t.ID] = &t
		}
	}
	return r, nil
}

func (r *tableRepository) persist() {
	tables := r.snapshot()
	data, err := json.Marshal(tables)
	if err != nil {
		log.Printf("failed to encode tables: %v", err)
		return
	}
	if err := r.store.Save(context.Background(), storage.CollectionTables, data); err != nil {
		log.Printf("failed to persist tables: %v", err)
	}
}

func (r *tableRepository) snapshot() []models.Table {
	tables := make([]models.Table, 0, len(r.tables))
	for _, t := range r.tables {
		tables = append(tables, *t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables
}

func (r *tableRepository) Create(table *models.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := *table
	r.tables[t.ID] = &t
	r.persist()
	return nil
}

func (r *tableRepository) GetByID(id string) (*models.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *t
	return &out, nil
}

func (r *tableRepository) GetAll() ([]models.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(), nil
}

func (r *tableRepository) FindByOrderID(orderID string) (*models.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tables {
		if t.OrderID == orderID && orderID != "" {
			out := *t
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *tableRepository) SetOrder(tableID, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[tableID]
	if !ok {
		return ErrNotFound
	}
	if t.OrderID != "" && t.OrderID != orderID {
		return ErrTableOccupied
	}
	t.OrderID = orderID
	r.persist()
	return nil
}

func (r *tableRepository) ClearOrder(tableID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[tableID]
	if !ok {
		return ErrNotFound
	}
	if t.OrderID == "" {
		return nil
	}
	t.OrderID = ""
	r.persist()
	return nil
}
