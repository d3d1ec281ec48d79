package models

import (
	"time"
)

type Order struct {
	ID            string          `json:"id"`
	Items         []OrderItem     `json:"items"`
	Subtotal      float64         `json:"subtotal"`
	Tax           float64         `json:"tax"`
	Discount      float64         `json:"discount"`
	Total         float64         `json:"total"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Payment       *PaymentDetails `json:"payment,omitempty"`
	TableID       string          `json:"table_id,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type OrderItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Notes     string  `json:"notes,omitempty"`
}

// PaymentDetails is the settlement payload kept on a paid order for audit.
type PaymentDetails struct {
	Method         PaymentMethod `json:"method"`
	AmountTendered float64       `json:"amount_tendered,omitempty"`
	Change         float64       `json:"change,omitempty"`
	TransactionRef string        `json:"transaction_ref,omitempty"`
	Customer       *CustomerInfo `json:"customer,omitempty"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash"
	MethodCard PaymentMethod = "card"
	MethodQRIS PaymentMethod = "qris"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodQRIS:
		return true
	}
	return false
}
