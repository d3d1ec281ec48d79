// Package settlement holds the method-specific collaborators that confirm a
// payment. The coordinator treats each one as an opaque call with a bounded
// wait; a real deployment swaps the simulated gateways for API clients.
package settlement

import (
	"context"

	"pos_manager/internal/models"
)

// Params carries the method-specific input a caller provides when settling.
type Params struct {
	// AmountTendered is the cash handed over; ignored by non-cash methods.
	AmountTendered float64 `json:"amount_tendered,omitempty"`
	// Reference is a card token or scanned QR payload.
	Reference string `json:"reference,omitempty"`
}

type Settler interface {
	Settle(ctx context.Context, amount float64, params Params) (*models.SettlementResult, error)
}
