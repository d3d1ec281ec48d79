package models

import "time"

// Table is a physical table slot. OrderID holds the single active order
// assigned to it, empty when the table is free.
type Table struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OrderID   string    `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
