package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"pos_manager/internal/models"
	"pos_manager/internal/storage"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetAll() ([]models.Order, error)
	GetByStatus(status models.OrderStatus) ([]models.Order, error)
	GetUnpaid() ([]models.Order, error)
	GetByTable(tableID string) ([]models.Order, error)
	GetByDateRange(start, end time.Time) ([]models.Order, error)
	Count() int
	UpdateStatus(id string, status models.OrderStatus) error
	// RecordPayment marks the order paid and stores the settlement payload.
	// It is a compare-and-set: an order that is not unpaid is rejected with
	// ErrAlreadyPaid, so a replayed checkout commit cannot apply twice.
	RecordPayment(id string, details *models.PaymentDetails, paidAt time.Time) (*models.Order, error)
	RefundPayment(id string) error
	SetTable(id, tableID string) error
	Delete(id string) error
}

type orderRepository struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
	store  storage.Store
}

func NewOrderRepository(store storage.Store) (OrderRepository, error) {
	r := &orderRepository{
		orders: make(map[string]*models.Order),
		store:  store,
	}
	data, err := store.Load(context.Background(), storage.CollectionOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if data != nil {
		var orders []models.Order
		if err := json.Unmarshal(data, &orders); err != nil {
			return nil, fmt.Errorf("failed to decode orders: %w", err)
		}
		for i := range orders {
			o := orders[i]
			r.orders[o.ID] = &o
		}
	}
	return r, nil
}

// persist writes the full collection back to the store. The in-memory state
// is already committed at this point; a failed write is logged and the next
// mutation rewrites the whole collection.
func (r *orderRepository) persist() {
	orders := r.snapshot()
	data, err := json.Marshal(orders)
	if err != nil {
		log.Printf("failed to encode orders: %v", err)
		return
	}
	if err := r.store.Save(context.Background(), storage.CollectionOrders, data); err != nil {
		log.Printf("failed to persist orders: %v", err)
	}
}

func (r *orderRepository) snapshot() []models.Order {
	orders := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, *cloneOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders
}

func cloneOrder(o *models.Order) *models.Order {
	out := *o
	out.Items = make([]models.OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	if o.PaidAt != nil {
		t := *o.PaidAt
		out.PaidAt = &t
	}
	if o.Payment != nil {
		p := *o.Payment
		if o.Payment.Customer != nil {
			c := *o.Payment.Customer
			p.Customer = &c
		}
		out.Payment = &p
	}
	return &out
}

func (r *orderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
	r.persist()
	return nil
}

func (r *orderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(), nil
}

func (r *orderRepository) GetByStatus(status models.OrderStatus) ([]models.Order, error) {
	return r.filter(func(o *models.Order) bool { return o.Status == status })
}

func (r *orderRepository) GetUnpaid() ([]models.Order, error) {
	return r.filter(func(o *models.Order) bool { return o.PaymentStatus == models.PaymentUnpaid })
}

func (r *orderRepository) GetByTable(tableID string) ([]models.Order, error) {
	return r.filter(func(o *models.Order) bool { return o.TableID == tableID })
}

func (r *orderRepository) GetByDateRange(start, end time.Time) ([]models.Order, error) {
	return r.filter(func(o *models.Order) bool {
		return !o.CreatedAt.Before(start) && o.CreatedAt.Before(end)
	})
}

func (r *orderRepository) filter(keep func(*models.Order) bool) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Order
	for _, o := range r.snapshot() {
		o := o
		if keep(&o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *orderRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

func (r *orderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	r.persist()
	return nil
}

func (r *orderRepository) RecordPayment(id string, details *models.PaymentDetails, paidAt time.Time) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if o.PaymentStatus != models.PaymentUnpaid {
		return nil, ErrAlreadyPaid
	}
	o.PaymentStatus = models.PaymentPaid
	o.PaymentMethod = details.Method
	o.PaidAt = &paidAt
	o.Payment = details
	r.persist()
	return cloneOrder(o), nil
}

func (r *orderRepository) RefundPayment(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	if o.PaymentStatus != models.PaymentPaid {
		return ErrNotPaid
	}
	o.PaymentStatus = models.PaymentRefunded
	r.persist()
	return nil
}

func (r *orderRepository) SetTable(id, tableID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.TableID = tableID
	r.persist()
	return nil
}

func (r *orderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ErrNotFound
	}
	delete(r.orders, id)
	r.persist()
	return nil
}
