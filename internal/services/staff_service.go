package services

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pos_manager/internal/models"
	"pos_manager/internal/repository"
)

type StaffService interface {
	Onboard(name string, role models.StaffRole, pin string) (*models.Staff, error)
	VerifyPIN(id, pin string) error
	GetStaff(id string) (*models.Staff, error)
	ListStaff() ([]models.Staff, error)
	ToggleStatus(id string, now time.Time) (*models.Staff, error)
	SetStatus(id string, status models.DutyStatus, now time.Time) (*models.Staff, error)
	// WorkedMinutes re-derives the total on-duty minutes against the given
	// "now"; the value keeps growing while the staff member is active.
	WorkedMinutes(id string, now time.Time) (int, error)
	BulkUpdateRole(ids []string, role models.StaffRole) error
	BulkUpdateStatus(ids []string, status models.DutyStatus, now time.Time) error
	BulkDelete(ids []string) error
	DeleteStaff(id string) error
}

type staffService struct {
	staffRepo repository.StaffRepository
}

func NewStaffService(staffRepo repository.StaffRepository) StaffService {
	return &staffService{staffRepo: staffRepo}
}

func (s *staffService) Onboard(name string, role models.StaffRole, pin string) (*models.Staff, error) {
	hashedPIN, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	staff := &models.Staff{
		ID:               uuid.NewString(),
		Name:             name,
		Role:             role,
		PINHash:          string(hashedPIN),
		Status:           models.DutyInactive,
		LastStatusChange: now,
		CreatedAt:        now,
	}
	if err := s.staffRepo.Create(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *staffService) VerifyPIN(id, pin string) error {
	staff, err := s.staffRepo.GetByID(id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(staff.PINHash), []byte(pin)) != nil {
		return ErrInvalidPIN
	}
	return nil
}

func (s *staffService) GetStaff(id string) (*models.Staff, error) {
	return s.staffRepo.GetByID(id)
}

func (s *staffService) ListStaff() ([]models.Staff, error) {
	return s.staffRepo.GetAll()
}

func (s *staffService) ToggleStatus(id string, now time.Time) (*models.Staff, error) {
	return s.staffRepo.Toggle(id, now)
}

func (s *staffService) SetStatus(id string, status models.DutyStatus, now time.Time) (*models.Staff, error) {
	return s.staffRepo.SetStatus(id, status, now)
}

func (s *staffService) WorkedMinutes(id string, now time.Time) (int, error) {
	staff, err := s.staffRepo.GetByID(id)
	if err != nil {
		return 0, err
	}
	return int(staff.WorkedDuration(now) / time.Minute), nil
}

func (s *staffService) BulkUpdateRole(ids []string, role models.StaffRole) error {
	return s.staffRepo.BulkUpdateRole(ids, role)
}

func (s *staffService) BulkUpdateStatus(ids []string, status models.DutyStatus, now time.Time) error {
	return s.staffRepo.BulkUpdateStatus(ids, status, now)
}

func (s *staffService) BulkDelete(ids []string) error {
	return s.staffRepo.BulkDelete(ids)
}

func (s *staffService) DeleteStaff(id string) error {
	return s.staffRepo.Delete(id)
}
