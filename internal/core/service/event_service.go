package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
	"github.com/haulwise/backoffice/internal/pkg/metrics"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, orderNumber, status string, ts time.Time) (bool, error)
	Mark(ctx context.Context, orderNumber, status string, ts time.Time) error
}

type eventService struct {
	orderRepo ports.OrderRepository
	eventRepo ports.EventRepository
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(
	orderRepo ports.OrderRepository,
	eventRepo ports.EventRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		dedup:     dedup,
		log:       log,
	}
}

// Process validates, deduplicates, and persists a single status event.
func (s *eventService) Process(ctx context.Context, in ports.StatusEventInput) error {
	start := time.Now()
	newStatus := domain.OrderStatus(in.Status)

	// 1. Idempotency check: duplicates are skipped silently.
	isDup, err := s.dedup.IsDuplicate(ctx, in.OrderNumber, in.Status, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("order", in.OrderNumber).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.EventsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("order", in.OrderNumber).Str("status", in.Status).Msg("duplicate event skipped")
		return nil
	}
	metrics.EventsDedupTotal.WithLabelValues("miss").Inc()

	// 2. Find order. Carrier-posted events must belong to that carrier.
	order, err := s.orderRepo.FindByOrderNumber(ctx, in.OrderNumber)
	if err == nil && in.CarrierCompanyID != "" && !order.VisibleToCarrier(in.CarrierCompanyID) {
		err = domain.ErrOrderNotFound
	}
	if err != nil {
		reason := "lookup_failed"
		if isNotFound(err) {
			reason = "order_not_found"
		}
		metrics.EventsErrorsTotal.WithLabelValues(reason).Inc()
		return fmt.Errorf("process event: %w", err)
	}

	// 3. Validate state machine transition.
	if !order.Status.CanTransitionTo(newStatus) || !isEventStatus(newStatus) {
		metrics.EventsErrorsTotal.WithLabelValues("invalid_transition").Inc()
		return fmt.Errorf("process event: %w (from %s to %s)", domain.ErrInvalidTransition, order.Status, newStatus)
	}

	// 4. Mark as processed before writing (prevents duplicate processing on retry).
	if markErr := s.dedup.Mark(ctx, in.OrderNumber, in.Status, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("order", in.OrderNumber).Msg("failed to set dedup key")
	}

	// 5. Atomically update order status + history.
	notes := in.Source
	if in.Notes != "" {
		notes = in.Source + ": " + in.Notes
	}
	if err := s.eventRepo.UpdateOrderStatus(ctx, in.OrderNumber, order.Status, newStatus, in.Timestamp, notes); err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("update_failed").Inc()
		return fmt.Errorf("process event: update status: %w", err)
	}

	// 6. Insert into audit trail (non-fatal on failure).
	auditEvent := &domain.StatusEvent{
		OrderNumber: in.OrderNumber,
		Status:      newStatus,
		Timestamp:   in.Timestamp,
		Source:      in.Source,
		Notes:       in.Notes,
	}
	if err := s.eventRepo.InsertEvent(ctx, auditEvent); err != nil {
		s.log.Warn().Err(err).Str("order", in.OrderNumber).Msg("failed to insert audit event")
	}

	metrics.EventsProcessedTotal.WithLabelValues(in.Status, in.Source).Inc()
	metrics.OrderTransitionsTotal.WithLabelValues(in.Status).Inc()
	metrics.EventProcessingDuration.WithLabelValues(in.Status).Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("order", in.OrderNumber).
		Str("status", in.Status).
		Str("source", in.Source).
		Msg("event processed")

	return nil
}

func isEventStatus(s domain.OrderStatus) bool {
	for _, allowed := range domain.EventStatuses {
		if allowed == s {
			return true
		}
	}
	return false
}
