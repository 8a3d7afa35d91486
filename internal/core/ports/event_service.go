package ports

import (
	"context"
	"time"
)

// StatusEventInput is the DTO passed from the transport layer to EventService.
type StatusEventInput struct {
	OrderNumber string
	Status      string
	Timestamp   time.Time
	Source      string
	Notes       string
	// CarrierCompanyID is set for events posted with a carrier token; the order
	// must be dispatched to that company.
	CarrierCompanyID string
}

// EventService processes incoming status events.
type EventService interface {
	Process(ctx context.Context, event StatusEventInput) error
}
