package handler

import (
	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/normalize"
	"github.com/haulwise/backoffice/internal/core/ports"
	"github.com/haulwise/backoffice/pkg/format"
)

type targetRequest struct {
	ChargeSide   bool `json:"charge_side"`
	DispatchSide bool `json:"dispatch_side"`
}

type addFeeRequest struct {
	Type   string        `json:"type"   validate:"required,feetype"`
	Amount amountInput   `json:"amount"`
	Memo   string        `json:"memo"   validate:"max=200"`
	Target targetRequest `json:"target"`
}

type updateFeeRequest struct {
	Type   *string        `json:"type"   validate:"omitempty,feetype"`
	Amount *amountInput   `json:"amount"`
	Memo   *string        `json:"memo"   validate:"omitempty,max=200"`
	Target *targetRequest `json:"target"`
}

type setBaseRequest struct {
	BaseChargeAmount   amountInput `json:"base_charge_amount"`
	BaseDispatchAmount amountInput `json:"base_dispatch_amount"`
}

type importFeesRequest struct {
	Fees []map[string]any `json:"fees" validate:"required,min=1,max=500"`
}

type feeResponse struct {
	domain.AdditionalFee
	AmountDisplay string `json:"amount_display"`
}

type ledgerResponse struct {
	OrderNumber        string          `json:"order_number"`
	Status             string          `json:"status"`
	Locked             bool            `json:"locked"`
	BaseChargeAmount   int64           `json:"base_charge_amount"`
	BaseDispatchAmount int64           `json:"base_dispatch_amount"`
	Fees               []feeResponse   `json:"fees"`
	Totals             *totalsResponse `json:"totals"`
}

type feeMutationResponse struct {
	Fee    *feeResponse    `json:"fee,omitempty"`
	Ledger *ledgerResponse `json:"ledger"`
}

type rejectedFeeResponse struct {
	Index  int                    `json:"index"`
	Issues []normalize.FieldIssue `json:"issues"`
}

type importFeesResponse struct {
	Added    int                   `json:"added"`
	Rejected []rejectedFeeResponse `json:"rejected"`
	Ledger   *ledgerResponse       `json:"ledger"`
}

func toFeeResponse(f domain.AdditionalFee) feeResponse {
	return feeResponse{AdditionalFee: f, AmountDisplay: format.Amount(f.Amount)}
}

func toLedgerResponse(v *ports.LedgerView) *ledgerResponse {
	fees := make([]feeResponse, 0, len(v.Ledger.Fees))
	for _, f := range v.Ledger.Fees {
		fees = append(fees, toFeeResponse(f))
	}
	return &ledgerResponse{
		OrderNumber:        v.OrderNumber,
		Status:             string(v.Status),
		Locked:             v.Locked,
		BaseChargeAmount:   v.Ledger.BaseChargeAmount,
		BaseDispatchAmount: v.Ledger.BaseDispatchAmount,
		Fees:               fees,
		Totals:             toTotalsResponse(v.Totals),
	}
}
