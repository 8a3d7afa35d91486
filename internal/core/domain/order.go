package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of a shipment order.
type OrderStatus string

const (
	StatusRegistered       OrderStatus = "registered"
	StatusDispatched       OrderStatus = "dispatched"
	StatusPickedUp         OrderStatus = "picked_up"
	StatusInTransit        OrderStatus = "in_transit"
	StatusDelivered        OrderStatus = "delivered"
	StatusSettlementClosed OrderStatus = "settlement_closed"
	StatusCancelled        OrderStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// dispatched -> dispatched is a carrier reassignment.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusRegistered: {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusDispatched, StatusPickedUp, StatusCancelled},
	StatusPickedUp:   {StatusInTransit},
	StatusInTransit:  {StatusDelivered},
	StatusDelivered:  {StatusSettlementClosed},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrOrderNotFound = errors.New("order not found")
var ErrDuplicateOrder = errors.New("order already exists")
var ErrForbidden = errors.New("access forbidden")
var ErrLedgerClosed = errors.New("settlement is closed; ledger is read-only")
var ErrVersionConflict = errors.New("order was modified concurrently")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Address is a pickup or drop-off location with its on-site contact.
type Address struct {
	Address      string `json:"address" bson:"address"`
	Detail       string `json:"detail,omitempty" bson:"detail,omitempty"`
	ContactName  string `json:"contact_name,omitempty" bson:"contact_name,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty" bson:"contact_phone,omitempty"`
}

// Schedule is the planned pickup and delivery window.
type Schedule struct {
	PickupAt   time.Time `json:"pickup_at" bson:"pickup_at"`
	DeliveryAt time.Time `json:"delivery_at" bson:"delivery_at"`
}

// Duration is the planned transit time. Zero when the window is inverted.
func (s Schedule) Duration() time.Duration {
	if s.DeliveryAt.Before(s.PickupAt) {
		return 0
	}
	return s.DeliveryAt.Sub(s.PickupAt)
}

// Cargo describes what is being moved.
type Cargo struct {
	Description string  `json:"description" bson:"description"`
	WeightKg    float64 `json:"weight_kg" bson:"weight_kg"`
	VehicleType string  `json:"vehicle_type,omitempty" bson:"vehicle_type,omitempty"`
}

// DispatchAssignment records the carrier and driver an order was handed to.
type DispatchAssignment struct {
	CarrierCompanyID string    `json:"carrier_company_id" bson:"carrier_company_id"`
	DriverName       string    `json:"driver_name" bson:"driver_name"`
	DriverPhone      string    `json:"driver_phone" bson:"driver_phone"`
	VehicleNumber    string    `json:"vehicle_number" bson:"vehicle_number"`
	AssignedAt       time.Time `json:"assigned_at" bson:"assigned_at"`
}

// StatusHistoryEntry records a single status transition on an order.
type StatusHistoryEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	Notes     string      `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Order is the core aggregate root. The fee ledger lives inside it.
type Order struct {
	ID               string               `json:"id" bson:"_id,omitempty"`
	OrderNumber      string               `json:"order_number" bson:"order_number"`
	ShipperCompanyID string               `json:"shipper_company_id" bson:"shipper_company_id"`
	Origin           Address              `json:"origin" bson:"origin"`
	Destination      Address              `json:"destination" bson:"destination"`
	Schedule         Schedule             `json:"schedule" bson:"schedule"`
	Cargo            Cargo                `json:"cargo" bson:"cargo"`
	Status           OrderStatus          `json:"status" bson:"status"`
	Dispatch         *DispatchAssignment  `json:"dispatch,omitempty" bson:"dispatch,omitempty"`
	Ledger           FeeLedger            `json:"ledger" bson:"ledger"`
	Version          int64                `json:"version" bson:"version"`
	CreatedBy        string               `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt        time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at" bson:"updated_at"`
	IdempotencyKey   string               `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	StatusHistory    []StatusHistoryEntry `json:"status_history" bson:"status_history"`
}

// LedgerLocked reports whether the order's figures are final.
func (o *Order) LedgerLocked() bool {
	return o.Status == StatusSettlementClosed
}

// MutableLedger returns the ledger for editing, or ErrLedgerClosed once the
// settlement is closed.
func (o *Order) MutableLedger() (*FeeLedger, error) {
	if o.LedgerLocked() {
		return nil, ErrLedgerClosed
	}
	return &o.Ledger, nil
}

// Transition moves the order to next and appends a history entry.
func (o *Order) Transition(next OrderStatus, at time.Time, notes string) error {
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	o.Status = next
	o.UpdatedAt = at
	o.StatusHistory = append(o.StatusHistory, StatusHistoryEntry{
		Status:    next,
		Timestamp: at,
		Notes:     notes,
	})
	return nil
}

// VisibleToCarrier reports whether a carrier company may see this order.
func (o *Order) VisibleToCarrier(companyID string) bool {
	return o.Dispatch != nil && companyID != "" && o.Dispatch.CarrierCompanyID == companyID
}
