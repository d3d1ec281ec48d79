package settlement

import (
	"context"
	"fmt"
	"time"

	"pos_manager/internal/models"
)

// Gateway simulates an external card or QRIS acquirer: it waits for the
// configured processing delay, honoring context cancellation, then confirms.
// A context that expires first surfaces as the deadline error so the caller
// treats it as a settlement timeout.
type Gateway struct {
	refPrefix string
	delay     time.Duration
}

func NewCardGateway(delay time.Duration) *Gateway {
	return &Gateway{refPrefix: "CARD", delay: delay}
}

func NewQRISGateway(delay time.Duration) *Gateway {
	return &Gateway{refPrefix: "QRIS", delay: delay}
}

func (g *Gateway) Settle(ctx context.Context, amount float64, params Params) (*models.SettlementResult, error) {
	if params.Reference == "" {
		return &models.SettlementResult{
			Status: models.SettlementFailed,
			Reason: "missing payment reference",
		}, nil
	}

	timer := time.NewTimer(g.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return &models.SettlementResult{
		Status:         models.SettlementSucceeded,
		TransactionRef: fmt.Sprintf("%s-%s", g.refPrefix, shortRef()),
	}, nil
}
