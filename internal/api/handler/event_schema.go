package handler

import "time"

type statusEventRequest struct {
	OrderNumber string    `json:"order_number" validate:"required"`
	Status      string    `json:"status"       validate:"required,oneof=picked_up in_transit delivered"`
	Timestamp   time.Time `json:"timestamp"    validate:"required"`
	Source      string    `json:"source"       validate:"required"`
	Notes       string    `json:"notes"        validate:"max=500"`
}
