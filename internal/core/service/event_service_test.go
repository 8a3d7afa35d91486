package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
)

func newEventSvc(repo *stubOrderRepo, eventRepo *stubEventRepo, dedup *stubDedup) ports.EventService {
	return NewEventService(repo, eventRepo, dedup, discardLogger)
}

func pickupEvent(n string) ports.StatusEventInput {
	return ports.StatusEventInput{
		OrderNumber: n,
		Status:      string(domain.StatusPickedUp),
		Timestamp:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Source:      "driver_app",
	}
}

func TestEventService_Process_HappyPath(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, "FB-1", domain.StatusDispatched, carrierCo.ID)
	eventRepo := &stubEventRepo{}
	dedup := &stubDedup{}

	if err := newEventSvc(repo, eventRepo, dedup).Process(context.Background(), pickupEvent("FB-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eventRepo.updated) != 1 || eventRepo.updated[0] != "FB-1:dispatched>picked_up" {
		t.Errorf("unexpected updates %v", eventRepo.updated)
	}
	if len(eventRepo.inserted) != 1 {
		t.Errorf("expected audit event, got %d", len(eventRepo.inserted))
	}
	if len(dedup.marked) != 1 || dedup.marked[0] != "FB-1:picked_up" {
		t.Errorf("unexpected dedup marks %v", dedup.marked)
	}
}

func TestEventService_Process_DuplicateSkipped(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, "FB-1", domain.StatusDispatched, carrierCo.ID)
	eventRepo := &stubEventRepo{}

	err := newEventSvc(repo, eventRepo, &stubDedup{dupResult: true}).Process(context.Background(), pickupEvent("FB-1"))
	if err != nil {
		t.Fatalf("duplicate should not error: %v", err)
	}
	if len(eventRepo.updated) != 0 {
		t.Error("duplicate must not update the order")
	}
}

func TestEventService_Process_DedupErrorStillProcesses(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, "FB-1", domain.StatusDispatched, carrierCo.ID)
	eventRepo := &stubEventRepo{}

	err := newEventSvc(repo, eventRepo, &stubDedup{dupErr: errors.New("redis down")}).Process(context.Background(), pickupEvent("FB-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eventRepo.updated) != 1 {
		t.Error("event should be processed when dedup is unavailable")
	}
}

func TestEventService_Process_InvalidTransitions(t *testing.T) {
	cases := []struct {
		name   string
		from   domain.OrderStatus
		status domain.OrderStatus
	}{
		{"skip ahead", domain.StatusDispatched, domain.StatusDelivered},
		{"before dispatch", domain.StatusRegistered, domain.StatusPickedUp},
		{"settlement via event", domain.StatusDelivered, domain.StatusSettlementClosed},
		{"cancel via event", domain.StatusDispatched, domain.StatusCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubOrderRepo()
			seedOrder(repo, "FB-1", tc.from, carrierCo.ID)
			eventRepo := &stubEventRepo{}
			dedup := &stubDedup{}

			in := pickupEvent("FB-1")
			in.Status = string(tc.status)
			err := newEventSvc(repo, eventRepo, dedup).Process(context.Background(), in)
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if len(dedup.marked) != 0 || len(eventRepo.updated) != 0 {
				t.Error("rejected event must leave no trace")
			}
		})
	}
}

func TestEventService_Process_CarrierScope(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, "FB-1", domain.StatusDispatched, "carrier-2")

	in := pickupEvent("FB-1")
	in.CarrierCompanyID = carrierCo.ID
	err := newEventSvc(repo, &stubEventRepo{}, &stubDedup{}).Process(context.Background(), in)
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestEventService_Process_OrderNotFound(t *testing.T) {
	err := newEventSvc(newStubOrderRepo(), &stubEventRepo{}, &stubDedup{}).Process(context.Background(), pickupEvent("FB-NONE"))
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestEventService_Process_UpdateConflict(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, "FB-1", domain.StatusDispatched, carrierCo.ID)

	err := newEventSvc(repo, &stubEventRepo{updateErr: domain.ErrVersionConflict}, &stubDedup{}).Process(context.Background(), pickupEvent("FB-1"))
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestEventService_Process_AuditFailureIsNonFatal(t *testing.T) {
	repo := newStubOrderRepo()
	seedOrder(repo, "FB-1", domain.StatusDispatched, carrierCo.ID)

	err := newEventSvc(repo, &stubEventRepo{insertErr: errors.New("mongo timeout")}, &stubDedup{}).Process(context.Background(), pickupEvent("FB-1"))
	if err != nil {
		t.Fatalf("audit failure should not fail the event: %v", err)
	}
}
