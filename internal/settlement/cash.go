package settlement

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pos_manager/internal/models"
)

// CashSettler settles locally: it checks the tendered amount and computes
// change. No external party is involved.
type CashSettler struct{}

func NewCashSettler() *CashSettler { return &CashSettler{} }

func (s *CashSettler) Settle(_ context.Context, amount float64, params Params) (*models.SettlementResult, error) {
	if params.AmountTendered < amount {
		return &models.SettlementResult{
			Status:         models.SettlementFailed,
			AmountTendered: params.AmountTendered,
			Reason:         "amount tendered is less than the total",
		}, nil
	}
	return &models.SettlementResult{
		Status:         models.SettlementSucceeded,
		TransactionRef: fmt.Sprintf("CASH-%s", shortRef()),
		AmountTendered: params.AmountTendered,
		Change:         params.AmountTendered - amount,
	}, nil
}

func shortRef() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
