// Package normalize adapts loosely shaped legacy records into typed inputs.
//
// Every accepted legacy field name is listed in a mapping table; anything
// else is reported back as a FieldIssue rather than dropped or defaulted.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/haulwise/backoffice/internal/core/domain"
)

// Canonical fee field names.
const (
	FieldType         = "type"
	FieldAmount       = "amount"
	FieldMemo         = "memo"
	FieldChargeSide   = "charge_side"
	FieldDispatchSide = "dispatch_side"
)

// feeFieldAliases maps each accepted legacy name to its canonical field.
// Keys under a nested "target" object are flattened as "target.<key>".
var feeFieldAliases = map[string]string{
	"type":     FieldType,
	"feeType":  FieldType,
	"fee_type": FieldType,
	"kind":     FieldType,
	"category": FieldType,

	"amount":    FieldAmount,
	"feeAmount": FieldAmount,
	"price":     FieldAmount,
	"value":     FieldAmount,
	"fee":       FieldAmount,

	"memo":        FieldMemo,
	"note":        FieldMemo,
	"notes":       FieldMemo,
	"remark":      FieldMemo,
	"description": FieldMemo,

	"charge_side":        FieldChargeSide,
	"chargeSide":         FieldChargeSide,
	"isCharge":           FieldChargeSide,
	"is_charge":          FieldChargeSide,
	"target.charge":      FieldChargeSide,
	"target.chargeSide":  FieldChargeSide,
	"target.charge_side": FieldChargeSide,

	"dispatch_side":        FieldDispatchSide,
	"dispatchSide":         FieldDispatchSide,
	"isDispatch":           FieldDispatchSide,
	"is_dispatch":          FieldDispatchSide,
	"target.dispatch":      FieldDispatchSide,
	"target.dispatchSide":  FieldDispatchSide,
	"target.dispatch_side": FieldDispatchSide,
}

// feeTypeAliases maps legacy fee type spellings to the configured types.
var feeTypeAliases = map[string]domain.FeeType{
	"manual":    domain.FeeManualHandling,
	"handling":  domain.FeeManualHandling,
	"roundtrip": domain.FeeRoundTrip,
	"wait":      domain.FeeWaiting,
	"cod":       domain.FeeCODAtSite,
	"toll_fee":  domain.FeeToll,
	"base_fee":  domain.FeeBase,
}

// FeeInput is a fully typed fee ready to be added to a ledger.
type FeeInput struct {
	Type   domain.FeeType
	Amount int64
	Memo   string
	Target domain.FeeTarget
}

// FieldIssue explains why a field could not be mapped.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i FieldIssue) String() string {
	return i.Field + ": " + i.Message
}

// Fee maps a legacy fee record onto FeeInput. The input is usable only when
// the returned issue list is empty.
func Fee(raw map[string]any) (FeeInput, []FieldIssue) {
	var issues []FieldIssue
	values := make(map[string]any, 5)
	sources := make(map[string]string, 5)

	flat := flatten(raw)
	for _, key := range sortedKeys(flat) {
		val := flat[key]
		canonical, ok := feeFieldAliases[key]
		if !ok {
			issues = append(issues, FieldIssue{Field: key, Message: "unrecognized field"})
			continue
		}
		if prev, seen := sources[canonical]; seen {
			if fmt.Sprint(values[canonical]) != fmt.Sprint(val) {
				issues = append(issues, FieldIssue{
					Field:   key,
					Message: fmt.Sprintf("conflicts with %q for %s", prev, canonical),
				})
			}
			continue
		}
		values[canonical] = val
		sources[canonical] = key
	}

	var in FeeInput

	if v, ok := values[FieldType]; ok {
		ft, err := toFeeType(v)
		if err != nil {
			issues = append(issues, FieldIssue{Field: sources[FieldType], Message: err.Error()})
		}
		in.Type = ft
	} else {
		issues = append(issues, FieldIssue{Field: FieldType, Message: "is required"})
	}

	if v, ok := values[FieldAmount]; ok {
		n, err := toAmount(v)
		if err != nil {
			issues = append(issues, FieldIssue{Field: sources[FieldAmount], Message: err.Error()})
		}
		in.Amount = n
	} else {
		issues = append(issues, FieldIssue{Field: FieldAmount, Message: "is required"})
	}

	if v, ok := values[FieldMemo]; ok {
		s, isStr := v.(string)
		if !isStr && v != nil {
			issues = append(issues, FieldIssue{Field: sources[FieldMemo], Message: "must be text"})
		}
		in.Memo = strings.TrimSpace(s)
	}

	for _, side := range []string{FieldChargeSide, FieldDispatchSide} {
		v, ok := values[side]
		if !ok {
			continue
		}
		b, err := toBool(v)
		if err != nil {
			issues = append(issues, FieldIssue{Field: sources[side], Message: err.Error()})
			continue
		}
		if side == FieldChargeSide {
			in.Target.ChargeSide = b
		} else {
			in.Target.DispatchSide = b
		}
	}
	if !in.Target.Any() {
		issues = append(issues, FieldIssue{Field: "target", Message: domain.ErrFeeWithoutTarget.Error()})
	}

	return in, issues
}

// flatten lifts the keys of a nested "target" object to "target.<key>".
func flatten(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "target" {
			if nested, ok := v.(map[string]any); ok {
				for nk, nv := range nested {
					out["target."+nk] = nv
				}
				continue
			}
		}
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toFeeType(v any) (domain.FeeType, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("must be text")
	}
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)

	ft := domain.FeeType(key)
	if ft.IsKnown() {
		return ft, nil
	}
	if alias, ok := feeTypeAliases[key]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("%w %q", domain.ErrUnknownFeeType, s)
}

func toAmount(v any) (int64, error) {
	switch n := v.(type) {
	case string:
		return domain.ParseAmount(n)
	case json.Number:
		return domain.ParseAmount(n.String())
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > float64(domain.MaxAmount) {
			return 0, domain.ErrInvalidAmount
		}
		return int64(n), nil
	case int:
		return bounded(int64(n))
	case int64:
		return bounded(n)
	}
	return 0, domain.ErrInvalidAmount
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case float64:
		switch b {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "y", "yes", "1":
			return true, nil
		case "false", "n", "no", "0", "":
			return false, nil
		}
	}
	return false, errors.New("must be a boolean")
}

func bounded(n int64) (int64, error) {
	if !domain.ValidAmount(n) {
		return 0, domain.ErrInvalidAmount
	}
	return n, nil
}
