package models

import "time"

type Staff struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Role     StaffRole  `json:"role"`
	PINHash  string     `json:"pin_hash,omitempty"`
	Status   DutyStatus `json:"status"`
	// AccruedSeconds is the total time spent in active status over all
	// closed intervals. The interval currently open (status active since
	// LastStatusChange) is not included until the next transition.
	AccruedSeconds   int64     `json:"accrued_seconds"`
	LastStatusChange time.Time `json:"last_status_change"`
	CreatedAt        time.Time `json:"created_at"`
}

type StaffRole string

const (
	RoleManager StaffRole = "manager"
	RoleCashier StaffRole = "cashier"
	RoleWaiter  StaffRole = "waiter"
	RoleChef    StaffRole = "chef"
)

func (r StaffRole) Valid() bool {
	switch r {
	case RoleManager, RoleCashier, RoleWaiter, RoleChef:
		return true
	}
	return false
}

type DutyStatus string

const (
	DutyActive   DutyStatus = "active"
	DutyOnBreak  DutyStatus = "on_break"
	DutyInactive DutyStatus = "inactive"
)

func (s DutyStatus) Valid() bool {
	switch s {
	case DutyActive, DutyOnBreak, DutyInactive:
		return true
	}
	return false
}

// NextDutyStatus returns the status following s in the toggle cycle
// active -> on_break -> inactive -> active.
func NextDutyStatus(s DutyStatus) DutyStatus {
	switch s {
	case DutyActive:
		return DutyOnBreak
	case DutyOnBreak:
		return DutyInactive
	default:
		return DutyActive
	}
}

// TransitionTo moves the staff member to the given duty status at the given
// time. Time accrues only while active: leaving active folds the open
// interval into AccruedSeconds, every other transition just moves the mark.
func (s *Staff) TransitionTo(status DutyStatus, now time.Time) {
	if s.Status == DutyActive && now.After(s.LastStatusChange) {
		s.AccruedSeconds += int64(now.Sub(s.LastStatusChange).Seconds())
	}
	s.Status = status
	s.LastStatusChange = now
}

// WorkedDuration returns the total active time up to now, including the
// currently open interval when the staff member is active. It is re-derived
// on every call and never cached.
func (s *Staff) WorkedDuration(now time.Time) time.Duration {
	d := time.Duration(s.AccruedSeconds) * time.Second
	if s.Status == DutyActive && now.After(s.LastStatusChange) {
		d += now.Sub(s.LastStatusChange)
	}
	return d
}
