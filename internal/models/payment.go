package models

import "time"

// PaymentSession is one in-progress checkout. Sessions live in memory only
// and are never persisted; an interrupted session leaves the order in its
// last committed state.
type PaymentSession struct {
	ID        string            `json:"id"`
	OrderID   string            `json:"order_id"`
	Step      CheckoutStep      `json:"step"`
	Method    PaymentMethod     `json:"method,omitempty"`
	Customer  *CustomerInfo     `json:"customer,omitempty"`
	Result    *SettlementResult `json:"result,omitempty"`
	StartedAt time.Time         `json:"started_at"`
}

type CheckoutStep string

const (
	StepSelectingMethod   CheckoutStep = "selecting_method"
	StepSettling          CheckoutStep = "settling"
	StepCapturingCustomer CheckoutStep = "capturing_customer"
	StepDone              CheckoutStep = "done"
)

type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// SettlementResult is the opaque outcome handed back by a settlement
// collaborator.
type SettlementResult struct {
	Status         SettlementStatus `json:"status"`
	TransactionRef string           `json:"transaction_ref,omitempty"`
	AmountTendered float64          `json:"amount_tendered,omitempty"`
	Change         float64          `json:"change,omitempty"`
	Reason         string           `json:"reason,omitempty"`
}

type SettlementStatus string

const (
	SettlementSucceeded SettlementStatus = "succeeded"
	SettlementFailed    SettlementStatus = "failed"
	SettlementTimedOut  SettlementStatus = "timed_out"
)
