package ports

import (
	"context"
	"time"

	"github.com/haulwise/backoffice/internal/core/domain"
)

// CreateOrderInput carries all data needed to register a new order.
type CreateOrderInput struct {
	ShipperCompanyID   string
	Origin             domain.Address
	Destination        domain.Address
	Schedule           domain.Schedule
	Cargo              domain.Cargo
	BaseChargeAmount   int64
	BaseDispatchAmount int64
	IdempotencyKey     string
	Actor              Actor
}

// OrderResult is returned by the service after registering an order.
type OrderResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the Idempotency-Key matched an existing order.
	AlreadyExisted bool
}

// ListOrdersInput carries all parameters for the list endpoint.
type ListOrdersInput struct {
	Actor            Actor
	Status           string
	ShipperCompanyID string
	CarrierCompanyID string
	Search           string
	DateFrom         time.Time
	DateTo           time.Time
	Page             int
	Limit            int
}

// ListOrdersResult is returned by ListOrders.
type ListOrdersResult struct {
	Items      []*domain.Order
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrderService defines use-case operations for shipment orders.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderResult, error)
	GetOrder(ctx context.Context, actor Actor, orderNumber string) (*domain.Order, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error)
	CancelOrder(ctx context.Context, actor Actor, orderNumber, reason string) (*domain.Order, error)
	CloseSettlement(ctx context.Context, actor Actor, orderNumber string) (*domain.Order, error)
}

// AssignDispatchInput hands an order to a carrier and driver.
type AssignDispatchInput struct {
	OrderNumber      string
	CarrierCompanyID string
	DriverName       string
	DriverPhone      string
	VehicleNumber    string
	NotifyDriver     bool
	Actor            Actor
}

// DispatchService assigns carriers and drivers to orders.
type DispatchService interface {
	Assign(ctx context.Context, input AssignDispatchInput) (*domain.Order, error)
}
