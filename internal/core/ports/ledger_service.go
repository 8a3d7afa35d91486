package ports

import (
	"context"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/normalize"
)

// LedgerView is the settlement screen of one order: stored fees plus derived totals.
type LedgerView struct {
	OrderNumber string
	Status      domain.OrderStatus
	Locked      bool
	Ledger      domain.FeeLedger
	Totals      domain.Totals
}

// AddFeeInput carries a new surcharge for an order's ledger.
type AddFeeInput struct {
	OrderNumber string
	Type        domain.FeeType
	Amount      int64
	Memo        string
	Target      domain.FeeTarget
	Actor       Actor
}

// UpdateFeeInput carries a partial update of one fee.
type UpdateFeeInput struct {
	OrderNumber string
	FeeID       string
	Patch       domain.FeePatch
	Actor       Actor
}

// RejectedFee is a legacy record that could not be imported.
type RejectedFee struct {
	Index  int
	Issues []normalize.FieldIssue
}

// ImportFeesResult summarises a bulk fee import.
type ImportFeesResult struct {
	Added    []domain.AdditionalFee
	Rejected []RejectedFee
	View     *LedgerView
}

// LedgerService edits an order's fee ledger and reports its totals.
type LedgerService interface {
	GetLedger(ctx context.Context, actor Actor, orderNumber string) (*LedgerView, error)
	AddFee(ctx context.Context, input AddFeeInput) (*domain.AdditionalFee, *LedgerView, error)
	UpdateFee(ctx context.Context, input UpdateFeeInput) (*domain.AdditionalFee, *LedgerView, error)
	RemoveFee(ctx context.Context, actor Actor, orderNumber, feeID string) (*LedgerView, error)
	SetBaseAmounts(ctx context.Context, actor Actor, orderNumber string, charge, dispatch int64) (*LedgerView, error)
	// ImportFees adds every record that normalizes cleanly; nothing is added when
	// all records are rejected.
	ImportFees(ctx context.Context, actor Actor, orderNumber string, records []map[string]any) (*ImportFeesResult, error)
}
