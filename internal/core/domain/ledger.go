package domain

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeLedger holds the base amounts and itemized surcharges of one order.
// Fee order is kept for display only.
type FeeLedger struct {
	BaseChargeAmount   int64           `json:"base_charge_amount" bson:"base_charge_amount"`
	BaseDispatchAmount int64           `json:"base_dispatch_amount" bson:"base_dispatch_amount"`
	Fees               []AdditionalFee `json:"fees" bson:"fees"`
}

// FeePatch carries the fields of a fee to overwrite. Nil fields are left as is.
type FeePatch struct {
	Type   *FeeType
	Amount *int64
	Memo   *string
	Target *FeeTarget
}

// Totals is the derived settlement view of a ledger. It is never stored.
type Totals struct {
	TotalCharge   int64           `json:"total_charge"`
	TotalDispatch int64           `json:"total_dispatch"`
	Profit        int64           `json:"profit"`
	MarginRate    decimal.Decimal `json:"margin_rate"`
}

// NewFeeLedger returns an empty ledger with the given base amounts.
func NewFeeLedger(baseCharge, baseDispatch int64) FeeLedger {
	return FeeLedger{
		BaseChargeAmount:   baseCharge,
		BaseDispatchAmount: baseDispatch,
		Fees:               []AdditionalFee{},
	}
}

// AddFee appends a new fee with a freshly generated id. The fee is refused with
// ErrInvalidAmount when its amount or the resulting side totals are out of range.
func (l *FeeLedger) AddFee(feeType FeeType, amount int64, memo string, target FeeTarget) (AdditionalFee, error) {
	if !target.Any() {
		return AdditionalFee{}, ErrFeeWithoutTarget
	}
	if !ValidAmount(amount) {
		return AdditionalFee{}, ErrInvalidAmount
	}
	fee := AdditionalFee{
		ID:     uuid.NewString(),
		Type:   feeType,
		Amount: amount,
		Memo:   memo,
		Target: target,
	}
	l.Fees = append(l.Fees, fee)
	if !l.inRange() {
		l.Fees = l.Fees[:len(l.Fees)-1]
		return AdditionalFee{}, ErrInvalidAmount
	}
	return fee, nil
}

// SetBaseAmounts overwrites both base amounts, keeping the old ones when the
// new totals would be out of range.
func (l *FeeLedger) SetBaseAmounts(charge, dispatch int64) error {
	if !ValidAmount(charge) || !ValidAmount(dispatch) {
		return ErrInvalidAmount
	}
	oldCharge, oldDispatch := l.BaseChargeAmount, l.BaseDispatchAmount
	l.BaseChargeAmount, l.BaseDispatchAmount = charge, dispatch
	if !l.inRange() {
		l.BaseChargeAmount, l.BaseDispatchAmount = oldCharge, oldDispatch
		return ErrInvalidAmount
	}
	return nil
}

// UpdateFee applies patch to the fee with the given id. An unknown id leaves the
// ledger untouched and returns a nil fee.
func (l *FeeLedger) UpdateFee(id string, patch FeePatch) (*AdditionalFee, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return nil, nil
	}

	updated := l.Fees[idx]
	if patch.Type != nil {
		updated.Type = *patch.Type
	}
	if patch.Amount != nil {
		if !ValidAmount(*patch.Amount) {
			return nil, ErrInvalidAmount
		}
		updated.Amount = *patch.Amount
	}
	if patch.Memo != nil {
		updated.Memo = *patch.Memo
	}
	if patch.Target != nil {
		updated.Target = *patch.Target
	}
	if !updated.Target.Any() {
		return nil, ErrFeeWithoutTarget
	}

	previous := l.Fees[idx]
	l.Fees[idx] = updated
	if !l.inRange() {
		l.Fees[idx] = previous
		return nil, ErrInvalidAmount
	}
	return &updated, nil
}

// RemoveFee deletes the fee with the given id. Removing an unknown id is a no-op.
func (l *FeeLedger) RemoveFee(id string) {
	idx := l.indexOf(id)
	if idx < 0 {
		return
	}
	l.Fees = append(l.Fees[:idx], l.Fees[idx+1:]...)
}

// Fee returns the fee with the given id.
func (l *FeeLedger) Fee(id string) (AdditionalFee, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return AdditionalFee{}, false
	}
	return l.Fees[idx], true
}

// ComputeTotals sums the fees per side on top of the base amounts.
func (l FeeLedger) ComputeTotals() Totals {
	t := Totals{
		TotalCharge:   l.BaseChargeAmount,
		TotalDispatch: l.BaseDispatchAmount,
	}
	for _, f := range l.Fees {
		if f.Target.ChargeSide {
			t.TotalCharge += f.Amount
		}
		if f.Target.DispatchSide {
			t.TotalDispatch += f.Amount
		}
	}
	t.Profit = t.TotalCharge - t.TotalDispatch
	t.MarginRate = marginRate(t.Profit, t.TotalCharge)
	return t
}

// marginRate is profit as a percentage of the charge total, rounded to 2 places.
func marginRate(profit, totalCharge int64) decimal.Decimal {
	if totalCharge == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(profit).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(totalCharge)).
		Round(2)
}

// inRange reports whether both side totals and the profit fit in an int64.
func (l FeeLedger) inRange() bool {
	charge, ok := l.BaseChargeAmount, true
	dispatch := l.BaseDispatchAmount
	for _, f := range l.Fees {
		if f.Target.ChargeSide {
			if charge, ok = addChecked(charge, f.Amount); !ok {
				return false
			}
		}
		if f.Target.DispatchSide {
			if dispatch, ok = addChecked(dispatch, f.Amount); !ok {
				return false
			}
		}
	}
	_, ok = addChecked(charge, -dispatch)
	return ok && dispatch != math.MinInt64
}

func addChecked(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func (l *FeeLedger) indexOf(id string) int {
	for i := range l.Fees {
		if l.Fees[i].ID == id {
			return i
		}
	}
	return -1
}
