package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"pos_manager/internal/models"
	"pos_manager/internal/repository"
	"pos_manager/internal/settlement"
)

// PaymentService drives one checkout session per call sequence:
//
//	selecting_method -> settling -> capturing_customer -> done
//
// with settling -> selecting_method as the only backward edge (a failed or
// timed-out settlement). Sessions are in-memory only; cancelling or crashing
// before done leaves the order and its table untouched.
type PaymentService interface {
	Begin(orderID string, customer *models.CustomerInfo) (*models.PaymentSession, error)
	Get(sessionID string) (*models.PaymentSession, error)
	SelectMethod(sessionID string, method models.PaymentMethod) (*models.PaymentSession, error)
	Settle(ctx context.Context, sessionID string, params settlement.Params) (*models.PaymentSession, error)
	CaptureCustomer(sessionID string, info models.CustomerInfo) (*models.PaymentSession, error)
	SkipCustomer(sessionID string) (*models.PaymentSession, error)
	Cancel(sessionID string) error
}

type paymentService struct {
	mu            sync.Mutex
	sessions      map[string]*models.PaymentSession
	orderRepo     repository.OrderRepository
	tableRepo     repository.TableRepository
	settlers      map[models.PaymentMethod]settlement.Settler
	settleTimeout time.Duration
}

func NewPaymentService(
	orderRepo repository.OrderRepository,
	tableRepo repository.TableRepository,
	settlers map[models.PaymentMethod]settlement.Settler,
	settleTimeout time.Duration,
) PaymentService {
	return &paymentService{
		sessions:      make(map[string]*models.PaymentSession),
		orderRepo:     orderRepo,
		tableRepo:     tableRepo,
		settlers:      settlers,
		settleTimeout: settleTimeout,
	}
}

func (s *paymentService) Begin(orderID string, customer *models.CustomerInfo) (*models.PaymentSession, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != models.PaymentUnpaid {
		return nil, repository.ErrAlreadyPaid
	}

	session := &models.PaymentSession{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Step:      models.StepSelectingMethod,
		Customer:  customer,
		StartedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return copySession(session), nil
}

func (s *paymentService) Get(sessionID string) (*models.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copySession(session), nil
}

func (s *paymentService) SelectMethod(sessionID string, method models.PaymentMethod) (*models.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if session.Step != models.StepSelectingMethod {
		return nil, ErrInvalidTransition
	}
	if _, ok := s.settlers[method]; !ok {
		return nil, ErrUnknownMethod
	}
	session.Method = method
	session.Step = models.StepSettling
	return copySession(session), nil
}

// Settle runs the method's settlement collaborator under the configured
// timeout. A failure or timeout returns the session to method selection with
// the reason in Result; the order is untouched either way. Success advances
// to customer capture, or commits directly when the customer is known.
func (s *paymentService) Settle(ctx context.Context, sessionID string, params settlement.Params) (*models.PaymentSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	if session.Step != models.StepSettling {
		s.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	method := session.Method
	orderID := session.OrderID
	s.mu.Unlock()

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	settler := s.settlers[method]
	ctx, cancel := context.WithTimeout(ctx, s.settleTimeout)
	defer cancel()

	result, err := settler.Settle(ctx, order.Total, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			result = &models.SettlementResult{
				Status: models.SettlementTimedOut,
				Reason: "settlement timed out",
			}
		} else {
			result = &models.SettlementResult{
				Status: models.SettlementFailed,
				Reason: err.Error(),
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok = s.sessions[sessionID]
	if !ok {
		// Cancelled while the collaborator was running.
		return nil, repository.ErrNotFound
	}
	session.Result = result

	if result.Status != models.SettlementSucceeded {
		session.Step = models.StepSelectingMethod
		session.Method = ""
		return copySession(session), nil
	}

	if session.Customer != nil {
		if err := s.commit(session); err != nil {
			return nil, err
		}
		return copySession(session), nil
	}
	session.Step = models.StepCapturingCustomer
	return copySession(session), nil
}

func (s *paymentService) CaptureCustomer(sessionID string, info models.CustomerInfo) (*models.PaymentSession, error) {
	return s.finishCapture(sessionID, &info)
}

func (s *paymentService) SkipCustomer(sessionID string) (*models.PaymentSession, error) {
	return s.finishCapture(sessionID, nil)
}

func (s *paymentService) finishCapture(sessionID string, customer *models.CustomerInfo) (*models.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if session.Step != models.StepCapturingCustomer {
		return nil, ErrInvalidTransition
	}
	if customer != nil {
		session.Customer = customer
	}
	if err := s.commit(session); err != nil {
		return nil, err
	}
	return copySession(session), nil
}

// commit is the single point where a checkout becomes permanent: record the
// payment, complete the order, release its table. The payment record is a
// compare-and-set, so a replayed or concurrent commit on the same order
// fails with ErrAlreadyPaid before any effect is applied twice. The session
// is discarded either way.
func (s *paymentService) commit(session *models.PaymentSession) error {
	defer delete(s.sessions, session.ID)

	details := &models.PaymentDetails{
		Method:   session.Method,
		Customer: session.Customer,
	}
	if session.Result != nil {
		details.AmountTendered = session.Result.AmountTendered
		details.Change = session.Result.Change
		details.TransactionRef = session.Result.TransactionRef
	}

	if _, err := s.orderRepo.RecordPayment(session.OrderID, details, time.Now()); err != nil {
		return err
	}
	if err := s.orderRepo.UpdateStatus(session.OrderID, models.OrderCompleted); err != nil {
		log.Printf("failed to complete order %s: %v", session.OrderID, err)
	}

	table, err := s.tableRepo.FindByOrderID(session.OrderID)
	if err == nil {
		if err := s.tableRepo.ClearOrder(table.ID); err != nil {
			log.Printf("failed to release table %s: %v", table.ID, err)
		}
		if err := s.orderRepo.SetTable(session.OrderID, ""); err != nil {
			log.Printf("failed to clear table link on order %s: %v", session.OrderID, err)
		}
	}

	session.Step = models.StepDone
	return nil
}

func (s *paymentService) Cancel(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func copySession(session *models.PaymentSession) *models.PaymentSession {
	out := *session
	if session.Customer != nil {
		c := *session.Customer
		out.Customer = &c
	}
	if session.Result != nil {
		r := *session.Result
		out.Result = &r
	}
	return &out
}
