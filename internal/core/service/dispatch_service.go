package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
	"github.com/haulwise/backoffice/internal/pkg/metrics"
	"github.com/haulwise/backoffice/pkg/format"
)

type DispatchService struct {
	orders    ports.OrderRepository
	companies ports.CompanyRepository
	notifier  ports.NotificationService
	log       zerolog.Logger
	now       func() time.Time
}

func NewDispatchService(
	orders ports.OrderRepository,
	companies ports.CompanyRepository,
	notifier ports.NotificationService,
	log zerolog.Logger,
) *DispatchService {
	return &DispatchService{
		orders:    orders,
		companies: companies,
		notifier:  notifier,
		log:       log,
		now:       utcNow,
	}
}

// Assign hands the order to a carrier and driver. Assigning an already
// dispatched order replaces the previous assignment. The driver SMS is best
// effort: a failed publish is logged and the assignment still stands.
func (s *DispatchService) Assign(ctx context.Context, in ports.AssignDispatchInput) (*domain.Order, error) {
	if in.Actor.Role == domain.RoleCarrier {
		return nil, domain.ErrForbidden
	}

	carrier, err := s.companies.FindByID(ctx, in.CarrierCompanyID)
	if err != nil {
		return nil, fmt.Errorf("assign dispatch: carrier: %w", err)
	}
	if carrier.Kind != domain.KindCarrier {
		return nil, fmt.Errorf("assign dispatch: %w", domain.ErrNotCarrier)
	}

	order, err := loadOrder(ctx, s.orders, in.Actor, in.OrderNumber)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := order.Transition(domain.StatusDispatched, now, "carrier "+carrier.Name); err != nil {
		return nil, fmt.Errorf("assign dispatch: %w (from %s)", err, order.Status)
	}
	order.Dispatch = &domain.DispatchAssignment{
		CarrierCompanyID: carrier.ID,
		DriverName:       in.DriverName,
		DriverPhone:      format.Phone(in.DriverPhone),
		VehicleNumber:    in.VehicleNumber,
		AssignedAt:       now,
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("assign dispatch: save: %w", err)
	}
	metrics.OrderTransitionsTotal.WithLabelValues(string(domain.StatusDispatched)).Inc()

	s.log.Info().
		Str("order_number", order.OrderNumber).
		Str("carrier", carrier.Name).
		Str("driver", in.DriverName).
		Msg("order dispatched")

	if in.NotifyDriver && s.notifier != nil {
		_, err := s.notifier.SendSMS(ctx, ports.SendSMSInput{
			Recipient: in.DriverPhone,
			Role:      "driver",
			Template:  TemplateDispatchAssigned,
			Vars: map[string]string{
				"order_number": order.OrderNumber,
				"pickup":       format.Schedule(order.Schedule.PickupAt, time.Time{}, nil),
				"origin":       order.Origin.Address,
				"destination":  order.Destination.Address,
				"vehicle":      in.VehicleNumber,
			},
		})
		if err != nil {
			s.log.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("driver notification failed")
		}
	}

	return order, nil
}
