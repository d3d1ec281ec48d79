package services

import (
	"errors"
	"testing"
	"time"

	"pos_manager/internal/models"
	"pos_manager/internal/repository"
	"pos_manager/internal/storage"
)

func newStaffService(t *testing.T) StaffService {
	t.Helper()
	repo, err := repository.NewStaffRepository(storage.NewMemoryStore())
	if err != nil {
		t.Fatal(err)
	}
	return NewStaffService(repo)
}

func TestStaffOnboardAndVerifyPIN(t *testing.T) {
	svc := newStaffService(t)
	staff, err := svc.Onboard("Dewi", models.RoleCashier, "4321")
	if err != nil {
		t.Fatal(err)
	}
	if staff.Status != models.DutyInactive {
		t.Fatalf("new staff status = %s, want inactive", staff.Status)
	}
	if staff.PINHash == "4321" || staff.PINHash == "" {
		t.Fatal("PIN must be stored hashed")
	}

	if err := svc.VerifyPIN(staff.ID, "4321"); err != nil {
		t.Fatalf("correct PIN rejected: %v", err)
	}
	if err := svc.VerifyPIN(staff.ID, "0000"); !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("wrong PIN = %v, want ErrInvalidPIN", err)
	}
	if err := svc.VerifyPIN("missing", "4321"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("unknown staff = %v, want ErrNotFound", err)
	}
}

func TestStaffToggleCycleAndWorkedMinutes(t *testing.T) {
	svc := newStaffService(t)
	staff, err := svc.Onboard("Agus", models.RoleWaiter, "1111")
	if err != nil {
		t.Fatal(err)
	}

	shiftStart := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	// inactive -> active
	got, err := svc.ToggleStatus(staff.ID, shiftStart)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.DutyActive {
		t.Fatalf("status after first toggle = %s, want active", got.Status)
	}

	minutes, err := svc.WorkedMinutes(staff.ID, shiftStart.Add(90*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if minutes != 90 {
		t.Fatalf("worked minutes while active = %d, want 90", minutes)
	}

	// active -> on_break freezes the clock
	if got, err = svc.ToggleStatus(staff.ID, shiftStart.Add(2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if got.Status != models.DutyOnBreak {
		t.Fatalf("status after second toggle = %s, want on_break", got.Status)
	}
	minutes, _ = svc.WorkedMinutes(staff.ID, shiftStart.Add(3*time.Hour))
	if minutes != 120 {
		t.Fatalf("worked minutes on break = %d, want 120", minutes)
	}

	// on_break -> inactive, still frozen
	if got, err = svc.ToggleStatus(staff.ID, shiftStart.Add(4*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if got.Status != models.DutyInactive {
		t.Fatalf("status after third toggle = %s, want inactive", got.Status)
	}
	minutes, _ = svc.WorkedMinutes(staff.ID, shiftStart.Add(5*time.Hour))
	if minutes != 120 {
		t.Fatalf("worked minutes while inactive = %d, want 120", minutes)
	}
}

func TestStaffSetStatusAccrues(t *testing.T) {
	svc := newStaffService(t)
	staff, err := svc.Onboard("Rina", models.RoleChef, "2222")
	if err != nil {
		t.Fatal(err)
	}

	start := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	if _, err := svc.SetStatus(staff.ID, models.DutyActive, start); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetStatus(staff.ID, models.DutyInactive, start.Add(45*time.Minute)); err != nil {
		t.Fatal(err)
	}
	minutes, err := svc.WorkedMinutes(staff.ID, start.Add(8*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if minutes != 45 {
		t.Fatalf("worked minutes = %d, want 45", minutes)
	}
}

func TestStaffBulkOperationsAllOrNothing(t *testing.T) {
	svc := newStaffService(t)
	s1, err := svc.Onboard("Joko", models.RoleWaiter, "1234")
	if err != nil {
		t.Fatal(err)
	}
	s2, err := svc.Onboard("Lina", models.RoleWaiter, "5678")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.BulkUpdateRole([]string{s1.ID, "missing"}, models.RoleCashier); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("bulk role with missing id = %v, want ErrNotFound", err)
	}
	unchanged, _ := svc.GetStaff(s1.ID)
	if unchanged.Role != models.RoleWaiter {
		t.Fatalf("role changed despite failed bulk update: %s", unchanged.Role)
	}

	if err := svc.BulkUpdateRole([]string{s1.ID, s2.ID}, models.RoleCashier); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{s1.ID, s2.ID} {
		got, _ := svc.GetStaff(id)
		if got.Role != models.RoleCashier {
			t.Fatalf("staff %s role = %s, want cashier", id, got.Role)
		}
	}

	now := time.Now()
	if err := svc.BulkUpdateStatus([]string{s1.ID, s2.ID}, models.DutyActive, now); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.GetStaff(s2.ID)
	if got.Status != models.DutyActive {
		t.Fatalf("staff status = %s, want active", got.Status)
	}

	if err := svc.BulkDelete([]string{s1.ID, "missing"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("bulk delete with missing id = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetStaff(s1.ID); err != nil {
		t.Fatalf("staff deleted despite failed bulk delete: %v", err)
	}
	if err := svc.BulkDelete([]string{s1.ID, s2.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetStaff(s2.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("staff survived bulk delete: %v", err)
	}
}
