package domain

import (
	"errors"
	"strings"
)

// FeeType is the surcharge category of an additional fee.
type FeeType string

const (
	FeeBase           FeeType = "base"
	FeeWaiting        FeeType = "waiting"
	FeeManualHandling FeeType = "manual_handling"
	FeeRoundTrip      FeeType = "round_trip"
	FeeToll           FeeType = "toll"
	FeeCommission     FeeType = "commission"
	FeeCODAtSite      FeeType = "cod_at_site"
)

// FeeTypes lists the configured surcharge categories in display order.
var FeeTypes = []FeeType{
	FeeBase,
	FeeWaiting,
	FeeManualHandling,
	FeeRoundTrip,
	FeeToll,
	FeeCommission,
	FeeCODAtSite,
}

// MaxAmount bounds the magnitude of any single amount, base or fee.
const MaxAmount int64 = 1_000_000_000_000_000

var (
	ErrInvalidAmount    = errors.New("invalid fee amount")
	ErrFeeWithoutTarget = errors.New("fee must apply to the charge side, the dispatch side, or both")
	ErrUnknownFeeType   = errors.New("unknown fee type")
)

// IsKnown reports whether t is one of the configured fee types.
func (t FeeType) IsKnown() bool {
	for _, known := range FeeTypes {
		if known == t {
			return true
		}
	}
	return false
}

// FeeTarget says which side(s) of the settlement a fee counts toward.
type FeeTarget struct {
	ChargeSide   bool `json:"charge_side" bson:"charge_side"`
	DispatchSide bool `json:"dispatch_side" bson:"dispatch_side"`
}

// Any reports whether the fee has a financial effect on at least one side.
func (t FeeTarget) Any() bool {
	return t.ChargeSide || t.DispatchSide
}

// AdditionalFee is a signed adjustment applied to one or both sides of a settlement.
type AdditionalFee struct {
	ID     string    `json:"id" bson:"id"`
	Type   FeeType   `json:"type" bson:"type"`
	Amount int64     `json:"amount" bson:"amount"`
	Memo   string    `json:"memo,omitempty" bson:"memo,omitempty"`
	Target FeeTarget `json:"target" bson:"target"`
}

// ValidAmount reports whether n is within ±MaxAmount.
func ValidAmount(n int64) bool {
	return n >= -MaxAmount && n <= MaxAmount
}

// ParseAmount converts operator input such as "-50,000" or "20,000원" into an
// integer amount. Everything except digits and '-' is dropped first; a '-' is
// only accepted as the leading character. Amounts beyond MaxAmount are rejected.
func ParseAmount(raw string) (int64, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, ErrInvalidAmount
	}

	negative := false
	if cleaned[0] == '-' {
		negative = true
		cleaned = cleaned[1:]
	}
	if cleaned == "" || strings.Contains(cleaned, "-") {
		return 0, ErrInvalidAmount
	}

	var n int64
	for _, r := range cleaned {
		d := int64(r - '0')
		if n > (MaxAmount-d)/10 {
			return 0, ErrInvalidAmount
		}
		n = n*10 + d
	}
	if negative {
		n = -n
	}
	return n, nil
}
