package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haulwise/backoffice/internal/api/middleware"
	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
)

// newContext builds an echo context as the Auth middleware would leave it.
// An empty role leaves the context unauthenticated.
func newContext(method, target, body, role, companyID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(middleware.KeyUsername, "tester")
		c.Set(middleware.KeyRole, role)
		c.Set(middleware.KeyCompanyID, companyID)
	}
	return c, rec
}

func withParams(c echo.Context, kv ...string) echo.Context {
	var names, values []string
	for i := 0; i+1 < len(kv); i += 2 {
		names = append(names, kv[i])
		values = append(values, kv[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c
}

func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:               "o1",
		OrderNumber:      "FB-00AB12CD",
		ShipperCompanyID: "shipper-1",
		Status:           domain.StatusDispatched,
		Ledger: domain.FeeLedger{
			BaseChargeAmount:   100000,
			BaseDispatchAmount: 80000,
			Fees: []domain.AdditionalFee{
				{ID: "f1", Type: domain.FeeWaiting, Amount: 20000, Target: domain.FeeTarget{ChargeSide: true}},
			},
		},
		Dispatch: &domain.DispatchAssignment{CarrierCompanyID: "carrier-1"},
	}
}

func viewOf(o *domain.Order) *ports.LedgerView {
	return &ports.LedgerView{
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		Ledger:      o.Ledger,
		Totals:      o.Ledger.ComputeTotals(),
	}
}

type stubOrderService struct {
	createFn func(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderResult, error)
	getFn    func(ctx context.Context, actor ports.Actor, orderNumber string) (*domain.Order, error)
	listFn   func(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error)
	cancelFn func(ctx context.Context, actor ports.Actor, orderNumber, reason string) (*domain.Order, error)
	closeFn  func(ctx context.Context, actor ports.Actor, orderNumber string) (*domain.Order, error)
}

func (s *stubOrderService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubOrderService) GetOrder(ctx context.Context, actor ports.Actor, orderNumber string) (*domain.Order, error) {
	return s.getFn(ctx, actor, orderNumber)
}

func (s *stubOrderService) ListOrders(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubOrderService) CancelOrder(ctx context.Context, actor ports.Actor, orderNumber, reason string) (*domain.Order, error) {
	return s.cancelFn(ctx, actor, orderNumber, reason)
}

func (s *stubOrderService) CloseSettlement(ctx context.Context, actor ports.Actor, orderNumber string) (*domain.Order, error) {
	return s.closeFn(ctx, actor, orderNumber)
}

type stubDispatchService struct {
	assignFn func(ctx context.Context, in ports.AssignDispatchInput) (*domain.Order, error)
}

func (s *stubDispatchService) Assign(ctx context.Context, in ports.AssignDispatchInput) (*domain.Order, error) {
	return s.assignFn(ctx, in)
}

type stubLedgerService struct {
	getFn    func(ctx context.Context, actor ports.Actor, orderNumber string) (*ports.LedgerView, error)
	addFn    func(ctx context.Context, in ports.AddFeeInput) (*domain.AdditionalFee, *ports.LedgerView, error)
	updateFn func(ctx context.Context, in ports.UpdateFeeInput) (*domain.AdditionalFee, *ports.LedgerView, error)
	removeFn func(ctx context.Context, actor ports.Actor, orderNumber, feeID string) (*ports.LedgerView, error)
	baseFn   func(ctx context.Context, actor ports.Actor, orderNumber string, charge, dispatch int64) (*ports.LedgerView, error)
	importFn func(ctx context.Context, actor ports.Actor, orderNumber string, records []map[string]any) (*ports.ImportFeesResult, error)
}

func (s *stubLedgerService) GetLedger(ctx context.Context, actor ports.Actor, orderNumber string) (*ports.LedgerView, error) {
	return s.getFn(ctx, actor, orderNumber)
}

func (s *stubLedgerService) AddFee(ctx context.Context, in ports.AddFeeInput) (*domain.AdditionalFee, *ports.LedgerView, error) {
	return s.addFn(ctx, in)
}

func (s *stubLedgerService) UpdateFee(ctx context.Context, in ports.UpdateFeeInput) (*domain.AdditionalFee, *ports.LedgerView, error) {
	return s.updateFn(ctx, in)
}

func (s *stubLedgerService) RemoveFee(ctx context.Context, actor ports.Actor, orderNumber, feeID string) (*ports.LedgerView, error) {
	return s.removeFn(ctx, actor, orderNumber, feeID)
}

func (s *stubLedgerService) SetBaseAmounts(ctx context.Context, actor ports.Actor, orderNumber string, charge, dispatch int64) (*ports.LedgerView, error) {
	return s.baseFn(ctx, actor, orderNumber, charge, dispatch)
}

func (s *stubLedgerService) ImportFees(ctx context.Context, actor ports.Actor, orderNumber string, records []map[string]any) (*ports.ImportFeesResult, error) {
	return s.importFn(ctx, actor, orderNumber, records)
}
