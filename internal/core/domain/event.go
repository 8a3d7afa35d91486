package domain

import "time"

// StatusEvent is a status update reported by a carrier or driver app.
type StatusEvent struct {
	OrderNumber string
	Status      OrderStatus
	Timestamp   time.Time
	Source      string
	Notes       string
}

// EventStatuses are the statuses drivers are allowed to report.
var EventStatuses = []OrderStatus{StatusPickedUp, StatusInTransit, StatusDelivered}
