package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/normalize"
	"github.com/haulwise/backoffice/internal/core/ports"
)

func TestLedgerHandler_Get(t *testing.T) {
	ledger := &stubLedgerService{
		getFn: func(_ context.Context, _ ports.Actor, num string) (*ports.LedgerView, error) {
			return viewOf(sampleOrder()), nil
		},
	}
	h := NewLedgerHandler(ledger)

	c, rec := newContext(http.MethodGet, "/v1/orders/FB-00AB12CD/ledger", "", domain.RoleOperator, "")
	withParams(c, "order_number", "FB-00AB12CD")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp ledgerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Totals.TotalCharge != 120000 || resp.Totals.TotalDispatch != 80000 || resp.Totals.Profit != 40000 {
		t.Fatalf("unexpected totals: %+v", resp.Totals)
	}
	if len(resp.Fees) != 1 || resp.Fees[0].AmountDisplay != "20,000" {
		t.Fatalf("unexpected fees: %+v", resp.Fees)
	}
}

func TestLedgerHandler_AddFee(t *testing.T) {
	var got ports.AddFeeInput
	ledger := &stubLedgerService{
		addFn: func(_ context.Context, in ports.AddFeeInput) (*domain.AdditionalFee, *ports.LedgerView, error) {
			got = in
			o := sampleOrder()
			fee, err := o.Ledger.AddFee(in.Type, in.Amount, in.Memo, in.Target)
			if err != nil {
				return nil, nil, err
			}
			return &fee, viewOf(o), nil
		},
	}
	h := NewLedgerHandler(ledger)

	body := `{"type":"toll","amount":"-3,000","memo":"refund","target":{"dispatch_side":true}}`
	c, rec := newContext(http.MethodPost, "/v1/orders/FB-00AB12CD/ledger/fees", body, domain.RoleOperator, "")
	withParams(c, "order_number", "FB-00AB12CD")
	if err := h.AddFee(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Type != domain.FeeToll || got.Amount != -3000 || got.Memo != "refund" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.Target.ChargeSide || !got.Target.DispatchSide {
		t.Fatalf("unexpected target: %+v", got.Target)
	}

	var resp feeMutationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Fee == nil || resp.Fee.AmountDisplay != "-3,000" || resp.Ledger.Totals.TotalDispatch != 77000 {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
}

func TestLedgerHandler_AddFee_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown type", `{"type":"bribe","amount":1000,"target":{"charge_side":true}}`},
		{"missing type", `{"amount":1000,"target":{"charge_side":true}}`},
		{"bad amount", `{"type":"toll","amount":"n/a","target":{"charge_side":true}}`},
	}
	ledger := &stubLedgerService{
		addFn: func(context.Context, ports.AddFeeInput) (*domain.AdditionalFee, *ports.LedgerView, error) {
			t.Fatalf("service should not be called")
			return nil, nil, nil
		},
	}
	h := NewLedgerHandler(ledger)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/v1/orders/FB-1/ledger/fees", tc.body, domain.RoleOperator, "")
			withParams(c, "order_number", "FB-1")
			if code := httpCode(h.AddFee(c)); code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", code)
			}
		})
	}
}

func TestLedgerHandler_UpdateFee_PartialPatch(t *testing.T) {
	var got ports.UpdateFeeInput
	ledger := &stubLedgerService{
		updateFn: func(_ context.Context, in ports.UpdateFeeInput) (*domain.AdditionalFee, *ports.LedgerView, error) {
			got = in
			o := sampleOrder()
			fee, err := o.Ledger.UpdateFee(in.FeeID, in.Patch)
			if err != nil {
				return nil, nil, err
			}
			return fee, viewOf(o), nil
		},
	}
	h := NewLedgerHandler(ledger)

	c, rec := newContext(http.MethodPatch, "/v1/orders/FB-00AB12CD/ledger/fees/f1", `{"memo":"2h wait"}`, domain.RoleOperator, "")
	withParams(c, "order_number", "FB-00AB12CD", "fee_id", "f1")
	if err := h.UpdateFee(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.FeeID != "f1" || got.Patch.Memo == nil || *got.Patch.Memo != "2h wait" {
		t.Fatalf("unexpected patch: %+v", got)
	}
	if got.Patch.Amount != nil || got.Patch.Type != nil || got.Patch.Target != nil {
		t.Fatalf("absent fields must stay nil: %+v", got.Patch)
	}
}

func TestLedgerHandler_UpdateFee_UnknownIDIsNoop(t *testing.T) {
	ledger := &stubLedgerService{
		updateFn: func(_ context.Context, in ports.UpdateFeeInput) (*domain.AdditionalFee, *ports.LedgerView, error) {
			return nil, viewOf(sampleOrder()), nil
		},
	}
	h := NewLedgerHandler(ledger)

	c, rec := newContext(http.MethodPatch, "/v1/orders/FB-00AB12CD/ledger/fees/missing", `{"amount":5000}`, domain.RoleOperator, "")
	withParams(c, "order_number", "FB-00AB12CD", "fee_id", "missing")
	if err := h.UpdateFee(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["fee"]; ok {
		t.Fatalf("unknown fee must not be echoed: %s", rec.Body.String())
	}
	if _, ok := body["ledger"]; !ok {
		t.Fatalf("expected the unchanged ledger: %s", rec.Body.String())
	}
}

func TestLedgerHandler_AddFee_AmountAboveMaxRejected(t *testing.T) {
	h := NewLedgerHandler(&stubLedgerService{})
	for _, body := range []string{
		`{"type":"toll","amount":"9,000,000,000,000,000,000","target":{"charge_side":true}}`,
		`{"type":"toll","amount":1000000000000001,"target":{"charge_side":true}}`,
	} {
		c, _ := newContext(http.MethodPost, "/v1/orders/FB-1/ledger/fees", body, domain.RoleOperator, "")
		withParams(c, "order_number", "FB-1")
		if code := httpCode(h.AddFee(c)); code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", body, code)
		}
	}
}

func TestLedgerHandler_SetBase(t *testing.T) {
	var charge, dispatch int64
	ledger := &stubLedgerService{
		baseFn: func(_ context.Context, _ ports.Actor, _ string, c, d int64) (*ports.LedgerView, error) {
			charge, dispatch = c, d
			return viewOf(sampleOrder()), nil
		},
	}
	h := NewLedgerHandler(ledger)

	c, _ := newContext(http.MethodPut, "/v1/orders/FB-1/ledger/base", `{"base_charge_amount":"₩200,000","base_dispatch_amount":150000}`, domain.RoleAdmin, "")
	withParams(c, "order_number", "FB-1")
	if err := h.SetBase(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if charge != 200000 || dispatch != 150000 {
		t.Fatalf("unexpected amounts: %d %d", charge, dispatch)
	}
}

func TestLedgerHandler_ImportFees(t *testing.T) {
	ledger := &stubLedgerService{
		importFn: func(_ context.Context, _ ports.Actor, _ string, records []map[string]any) (*ports.ImportFeesResult, error) {
			if len(records) != 2 {
				t.Fatalf("expected 2 records, got %d", len(records))
			}
			return &ports.ImportFeesResult{
				Added:    []domain.AdditionalFee{{ID: "f9", Type: domain.FeeToll, Amount: 5000}},
				Rejected: []ports.RejectedFee{{Index: 1, Issues: []normalize.FieldIssue{{Field: "type", Message: "missing"}}}},
				View:     viewOf(sampleOrder()),
			}, nil
		},
	}
	h := NewLedgerHandler(ledger)

	body := `{"fees":[{"feeType":"toll","price":5000,"isCharge":true},{"price":1}]}`
	c, rec := newContext(http.MethodPost, "/v1/orders/FB-1/ledger/fees/import", body, domain.RoleOperator, "")
	withParams(c, "order_number", "FB-1")
	if err := h.ImportFees(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp importFeesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Added != 1 || len(resp.Rejected) != 1 || resp.Rejected[0].Index != 1 || resp.Rejected[0].Issues[0].Field != "type" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
}

func TestLedgerHandler_PassesDomainErrors(t *testing.T) {
	ledger := &stubLedgerService{
		removeFn: func(context.Context, ports.Actor, string, string) (*ports.LedgerView, error) {
			return nil, domain.ErrLedgerClosed
		},
	}
	h := NewLedgerHandler(ledger)

	c, _ := newContext(http.MethodDelete, "/v1/orders/FB-1/ledger/fees/f1", "", domain.RoleOperator, "")
	withParams(c, "order_number", "FB-1", "fee_id", "f1")
	if err := h.RemoveFee(c); err != domain.ErrLedgerClosed {
		t.Fatalf("expected ErrLedgerClosed, got %v", err)
	}
}
