package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
	"github.com/haulwise/backoffice/internal/pkg/metrics"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type OrderService struct {
	repo      ports.OrderRepository
	companies ports.CompanyRepository
	logger    zerolog.Logger
	now       func() time.Time
}

func NewOrderService(repo ports.OrderRepository, companies ports.CompanyRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, companies: companies, logger: logger, now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

// CreateOrder registers a new order with an empty ledger. If an idempotency key
// is provided and already seen, the previously created order is returned
// without side effects.
func (s *OrderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.OrderResult, error) {
	if input.Actor.Role == domain.RoleCarrier {
		return nil, domain.ErrForbidden
	}

	if input.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil && existing != nil {
			s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("order_number", existing.OrderNumber).Msg("idempotent replay")
			return &ports.OrderResult{Order: existing, AlreadyExisted: true}, nil
		}
	}

	shipper, err := s.companies.FindByID(ctx, input.ShipperCompanyID)
	if err != nil {
		return nil, fmt.Errorf("create order: shipper: %w", err)
	}
	if shipper.Kind != domain.KindShipper {
		return nil, fmt.Errorf("create order: %w", domain.ErrNotShipper)
	}

	now := s.now()
	order := &domain.Order{
		OrderNumber:      generateOrderNumber(),
		ShipperCompanyID: shipper.ID,
		Origin:           input.Origin,
		Destination:      input.Destination,
		Schedule:         input.Schedule,
		Cargo:            input.Cargo,
		Status:           domain.StatusRegistered,
		Ledger:           domain.NewFeeLedger(input.BaseChargeAmount, input.BaseDispatchAmount),
		Version:          1,
		CreatedBy:        input.Actor.Username,
		CreatedAt:        now,
		UpdatedAt:        now,
		IdempotencyKey:   input.IdempotencyKey,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.StatusRegistered, Timestamp: now},
		},
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	s.logger.Info().Str("order_number", order.OrderNumber).Str("shipper", shipper.Name).Msg("order registered")

	return &ports.OrderResult{Order: order}, nil
}

// GetOrder returns one order. Carriers only see orders dispatched to them; any
// other order is reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, actor ports.Actor, orderNumber string) (*domain.Order, error) {
	return loadOrder(ctx, s.repo, actor, orderNumber)
}

// ListOrders returns a page of orders. Limit defaults to 20 and is capped at 100.
func (s *OrderService) ListOrders(ctx context.Context, input ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := input.Page
	if page <= 0 {
		page = 1
	}

	filter := ports.ListOrdersFilter{
		Status:           input.Status,
		ShipperCompanyID: input.ShipperCompanyID,
		CarrierCompanyID: input.CarrierCompanyID,
		Search:           input.Search,
		DateFrom:         input.DateFrom,
		DateTo:           input.DateTo,
		Page:             page,
		Limit:            limit,
	}
	if input.Actor.Role == domain.RoleCarrier {
		if input.Actor.CompanyID == "" {
			return nil, domain.ErrForbidden
		}
		filter.CarrierCompanyID = input.Actor.CompanyID
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListOrdersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// CancelOrder cancels an order that has not been picked up yet.
func (s *OrderService) CancelOrder(ctx context.Context, actor ports.Actor, orderNumber, reason string) (*domain.Order, error) {
	if actor.Role == domain.RoleCarrier {
		return nil, domain.ErrForbidden
	}
	return s.transition(ctx, actor, orderNumber, domain.StatusCancelled, reason)
}

// CloseSettlement finalises a delivered order. Its ledger becomes read-only.
func (s *OrderService) CloseSettlement(ctx context.Context, actor ports.Actor, orderNumber string) (*domain.Order, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	order, err := s.transition(ctx, actor, orderNumber, domain.StatusSettlementClosed, "closed by "+actor.Username)
	if err != nil {
		return nil, err
	}

	totals := order.Ledger.ComputeTotals()
	s.logger.Info().
		Str("order_number", order.OrderNumber).
		Int64("total_charge", totals.TotalCharge).
		Int64("total_dispatch", totals.TotalDispatch).
		Int64("profit", totals.Profit).
		Msg("settlement closed")
	return order, nil
}

func (s *OrderService) transition(ctx context.Context, actor ports.Actor, orderNumber string, next domain.OrderStatus, notes string) (*domain.Order, error) {
	order, err := loadOrder(ctx, s.repo, actor, orderNumber)
	if err != nil {
		return nil, err
	}
	if err := order.Transition(next, s.now(), notes); err != nil {
		return nil, fmt.Errorf("%w (from %s to %s)", err, order.Status, next)
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	metrics.OrderTransitionsTotal.WithLabelValues(string(next)).Inc()
	return order, nil
}

// loadOrder fetches an order and applies carrier visibility.
func loadOrder(ctx context.Context, repo ports.OrderRepository, actor ports.Actor, orderNumber string) (*domain.Order, error) {
	order, err := repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCarrier && !order.VisibleToCarrier(actor.CompanyID) {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// isNotFound reports whether err means the order does not exist for the caller.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrOrderNotFound)
}

// generateOrderNumber returns a unique order number in the format FB-XXXXXXXX.
func generateOrderNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("FB-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("FB-%08X", b)
}
