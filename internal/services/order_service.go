package services

import (
	"time"

	"github.com/google/uuid"

	"pos_manager/internal/models"
	"pos_manager/internal/repository"
)

type OrderService interface {
	CreateOrder(order *models.Order) (*models.Order, error)
	GetOrder(id string) (*models.Order, error)
	ListOrders() ([]models.Order, error)
	ListPending() ([]models.Order, error)
	ListProcessing() ([]models.Order, error)
	ListUnpaid() ([]models.Order, error)
	ListByTable(tableID string) ([]models.Order, error)
	ListInRange(start, end time.Time) ([]models.Order, error)
	ListToday(now time.Time) ([]models.Order, error)
	UpdateStatus(id string, status models.OrderStatus) error
	RefundOrder(id string) error
	DeleteOrder(id string) error
	RevenueToday(now time.Time) (float64, error)
	TotalCount() int
	AveragePaidOrderValue() (float64, error)
	CountByStaffOnDay(staffID string, day time.Time) (int, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	tableRepo repository.TableRepository
}

func NewOrderService(orderRepo repository.OrderRepository, tableRepo repository.TableRepository) OrderService {
	return &orderService{orderRepo: orderRepo, tableRepo: tableRepo}
}

// CreateOrder stores a new order as pending and unpaid. The caller supplies
// items and totals; the total is always re-derived from its components and
// clamped at zero. A table reference on the order claims that table.
func (s *orderService) CreateOrder(order *models.Order) (*models.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.Status = models.OrderPending
	order.PaymentStatus = models.PaymentUnpaid
	order.PaymentMethod = ""
	order.PaidAt = nil
	order.Payment = nil

	order.Total = order.Subtotal + order.Tax - order.Discount
	if order.Total < 0 {
		order.Total = 0
	}

	if order.TableID != "" {
		// Claim the table before the order exists so a conflicting
		// assignment rejects the whole creation.
		if err := s.tableRepo.SetOrder(order.TableID, order.ID); err != nil {
			return nil, err
		}
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(order.ID)
}

func (s *orderService) GetOrder(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

func (s *orderService) ListOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

func (s *orderService) ListPending() ([]models.Order, error) {
	return s.orderRepo.GetByStatus(models.OrderPending)
}

func (s *orderService) ListProcessing() ([]models.Order, error) {
	return s.orderRepo.GetByStatus(models.OrderProcessing)
}

func (s *orderService) ListUnpaid() ([]models.Order, error) {
	return s.orderRepo.GetUnpaid()
}

func (s *orderService) ListByTable(tableID string) ([]models.Order, error) {
	return s.orderRepo.GetByTable(tableID)
}

func (s *orderService) ListInRange(start, end time.Time) ([]models.Order, error) {
	return s.orderRepo.GetByDateRange(start, end)
}

func (s *orderService) ListToday(now time.Time) ([]models.Order, error) {
	start, end := dayBounds(now)
	return s.orderRepo.GetByDateRange(start, end)
}

func (s *orderService) UpdateStatus(id string, status models.OrderStatus) error {
	return s.orderRepo.UpdateStatus(id, status)
}

func (s *orderService) RefundOrder(id string) error {
	return s.orderRepo.RefundPayment(id)
}

// DeleteOrder removes the order permanently, releasing its table first so
// no table is left pointing at a missing order.
func (s *orderService) DeleteOrder(id string) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order.TableID != "" {
		if err := s.tableRepo.ClearOrder(order.TableID); err != nil && err != repository.ErrNotFound {
			return err
		}
	}
	return s.orderRepo.Delete(id)
}

func (s *orderService) RevenueToday(now time.Time) (float64, error) {
	orders, err := s.ListToday(now)
	if err != nil {
		return 0, err
	}
	var revenue float64
	for _, o := range orders {
		if o.PaymentStatus == models.PaymentPaid {
			revenue += o.Total
		}
	}
	return revenue, nil
}

func (s *orderService) TotalCount() int {
	return s.orderRepo.Count()
}

func (s *orderService) AveragePaidOrderValue() (float64, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return 0, err
	}
	var sum float64
	var n int
	for _, o := range orders {
		if o.PaymentStatus == models.PaymentPaid {
			sum += o.Total
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (s *orderService) CountByStaffOnDay(staffID string, day time.Time) (int, error) {
	start, end := dayBounds(day)
	orders, err := s.orderRepo.GetByDateRange(start, end)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, o := range orders {
		if o.CreatedBy == staffID {
			n++
		}
	}
	return n, nil
}

func dayBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.Add(24 * time.Hour)
}
