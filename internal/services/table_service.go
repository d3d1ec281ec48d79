package services

import (
	"time"

	"github.com/google/uuid"

	"pos_manager/internal/models"
	"pos_manager/internal/repository"
)

type TableService interface {
	ProvisionTable(name string) (*models.Table, error)
	GetTable(id string) (*models.Table, error)
	ListTables() ([]models.Table, error)
	// Assign links an order and a table both ways. A table holding a
	// different order is rejected; an order already seated elsewhere is
	// moved, releasing its previous table.
	Assign(tableID, orderID string) error
	Release(tableID string) error
	FindByOrderID(orderID string) (*models.Table, error)
}

type tableService struct {
	tableRepo repository.TableRepository
	orderRepo repository.OrderRepository
}

func NewTableService(tableRepo repository.TableRepository, orderRepo repository.OrderRepository) TableService {
	return &tableService{tableRepo: tableRepo, orderRepo: orderRepo}
}

func (s *tableService) ProvisionTable(name string) (*models.Table, error) {
	table := &models.Table{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.tableRepo.Create(table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *tableService) GetTable(id string) (*models.Table, error) {
	return s.tableRepo.GetByID(id)
}

func (s *tableService) ListTables() ([]models.Table, error) {
	return s.tableRepo.GetAll()
}

func (s *tableService) Assign(tableID, orderID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}

	// Claim the new table first; a conflict leaves everything untouched.
	if err := s.tableRepo.SetOrder(tableID, orderID); err != nil {
		return err
	}

	if order.TableID != "" && order.TableID != tableID {
		if err := s.tableRepo.ClearOrder(order.TableID); err != nil && err != repository.ErrNotFound {
			return err
		}
	}

	if err := s.orderRepo.SetTable(orderID, tableID); err != nil {
		// The order vanished between lookup and link; undo the claim.
		_ = s.tableRepo.ClearOrder(tableID)
		return err
	}
	return nil
}

func (s *tableService) Release(tableID string) error {
	table, err := s.tableRepo.GetByID(tableID)
	if err != nil {
		return err
	}
	orderID := table.OrderID
	if err := s.tableRepo.ClearOrder(tableID); err != nil {
		return err
	}
	if orderID != "" {
		if err := s.orderRepo.SetTable(orderID, ""); err != nil && err != repository.ErrNotFound {
			return err
		}
	}
	return nil
}

func (s *tableService) FindByOrderID(orderID string) (*models.Table, error) {
	return s.tableRepo.FindByOrderID(orderID)
}
