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

type StaffRepository interface {
	Create(staff *models.Staff) error
	GetByID(id string) (*models.Staff, error)
	GetAll() ([]models.Staff, error)
	// Toggle cycles the duty status (active -> on_break -> inactive ->
	// active) at the given time and returns the updated record.
	Toggle(id string, now time.Time) (*models.Staff, error)
	SetStatus(id string, status models.DutyStatus, now time.Time) (*models.Staff, error)
	// Bulk operations validate every id first and apply all changes or none.
	BulkUpdateRole(ids []string, role models.StaffRole) error
	BulkUpdateStatus(ids []string, status models.DutyStatus, now time.Time) error
	BulkDelete(ids []string) error
	Delete(id string) error
}

type staffRepository struct {
	mu    sync.RWMutex
	staff map[string]*models.Staff
	store storage.Store
}

func NewStaffRepository(store storage.Store) (StaffRepository, error) {
	r := &staffRepository{
		staff: make(map[string]*models.Staff),
		store: store,
	}
	data, err := store.Load(context.Background(), storage.CollectionStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}
	if data != nil {
		var staff []models.Staff
		if err := json.Unmarshal(data, &staff); err != nil {
			return nil, fmt.Errorf("failed to decode staff: %w", err)
		}
		for i := range staff {
			s := staff[i]
			r.staff[s.ID] = &s
		}
	}
	return r, nil
}

func (r *staffRepository) persist() {
	staff := r.snapshot()
	data, err := json.Marshal(staff)
	if err != nil {
		log.Printf("failed to encode staff: %v", err)
		return
	}
	if err := r.store.Save(context.Background(), storage.CollectionStaff, data); err != nil {
		log.Printf("failed to persist staff: %v", err)
	}
}

func (r *staffRepository) snapshot() []models.Staff {
	staff := make([]models.Staff, 0, len(r.staff))
	for _, s := range r.staff {
		staff = append(staff, *s)
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].Name < staff[j].Name })
	return staff
}

func (r *staffRepository) Create(staff *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := *staff
	r.staff[s.ID] = &s
	r.persist()
	return nil
}

func (r *staffRepository) GetByID(id string) (*models.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.staff[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s
	return &out, nil
}

func (r *staffRepository) GetAll() ([]models.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(), nil
}

func (r *staffRepository) Toggle(id string, now time.Time) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.staff[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.TransitionTo(models.NextDutyStatus(s.Status), now)
	r.persist()
	out := *s
	return &out, nil
}

func (r *staffRepository) SetStatus(id string, status models.DutyStatus, now time.Time) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.staff[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.TransitionTo(status, now)
	r.persist()
	out := *s
	return &out, nil
}

func (r *staffRepository) BulkUpdateRole(ids []string, role models.StaffRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkAll(ids); err != nil {
		return err
	}
	for _, id := range ids {
		r.staff[id].Role = role
	}
	r.persist()
	return nil
}

func (r *staffRepository) BulkUpdateStatus(ids []string, status models.DutyStatus, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkAll(ids); err != nil {
		return err
	}
	for _, id := range ids {
		r.staff[id].TransitionTo(status, now)
	}
	r.persist()
	return nil
}

func (r *staffRepository) BulkDelete(ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkAll(ids); err != nil {
		return err
	}
	for _, id := range ids {
		delete(r.staff, id)
	}
	r.persist()
	return nil
}

func (r *staffRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[id]; !ok {
		return ErrNotFound
	}
	delete(r.staff, id)
	r.persist()
	return nil
}

func (r *staffRepository) checkAll(ids []string) error {
	for _, id := range ids {
		if _, ok := r.staff[id]; !ok {
			return fmt.Errorf("staff %s: %w", id, ErrNotFound)
		}
	}
	return nil
}
