package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/pkg/format"
)

type addressRequest struct {
	Address      string `json:"address"       validate:"required"`
	Detail       string `json:"detail"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
}

type scheduleRequest struct {
	PickupAt   time.Time `json:"pickup_at"   validate:"required"`
	DeliveryAt time.Time `json:"delivery_at" validate:"required,gtefield=PickupAt"`
}

type cargoRequest struct {
	Description string  `json:"description"  validate:"required"`
	WeightKg    float64 `json:"weight_kg"    validate:"gt=0"`
	VehicleType string  `json:"vehicle_type"`
}

type createOrderRequest struct {
	ShipperCompanyID   string          `json:"shipper_company_id"   validate:"required"`
	Origin             addressRequest  `json:"origin"               validate:"required"`
	Destination        addressRequest  `json:"destination"          validate:"required"`
	Schedule           scheduleRequest `json:"schedule"             validate:"required"`
	Cargo              cargoRequest    `json:"cargo"                validate:"required"`
	BaseChargeAmount   amountInput     `json:"base_charge_amount"`
	BaseDispatchAmount amountInput     `json:"base_dispatch_amount"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type assignDispatchRequest struct {
	CarrierCompanyID string `json:"carrier_company_id" validate:"required"`
	DriverName       string `json:"driver_name"        validate:"required"`
	DriverPhone      string `json:"driver_phone"       validate:"required"`
	VehicleNumber    string `json:"vehicle_number"     validate:"required"`
	NotifyDriver     bool   `json:"notify_driver"`
}

type orderLinks struct {
	Self   string `json:"self"`
	Ledger string `json:"ledger"`
}

// totalsResponse carries raw figures plus their display strings.
type totalsResponse struct {
	TotalCharge   int64           `json:"total_charge"`
	TotalDispatch int64           `json:"total_dispatch"`
	Profit        int64           `json:"profit"`
	MarginRate    decimal.Decimal `json:"margin_rate"`
	Display       totalsDisplay   `json:"display"`
}

type totalsDisplay struct {
	TotalCharge   string `json:"total_charge"`
	TotalDispatch string `json:"total_dispatch"`
	Profit        string `json:"profit"`
	MarginRate    string `json:"margin_rate"`
}

type orderResponse struct {
	*domain.Order
	ScheduleDisplay string          `json:"schedule_display"`
	TransitTime     string          `json:"transit_time"`
	Totals          *totalsResponse `json:"totals,omitempty"`
	Links           orderLinks      `json:"_links"`
}

type listOrdersResponse struct {
	Items      []orderResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

func toTotalsResponse(t domain.Totals) *totalsResponse {
	return &totalsResponse{
		TotalCharge:   t.TotalCharge,
		TotalDispatch: t.TotalDispatch,
		Profit:        t.Profit,
		MarginRate:    t.MarginRate,
		Display: totalsDisplay{
			TotalCharge:   format.Amount(t.TotalCharge),
			TotalDispatch: format.Amount(t.TotalDispatch),
			Profit:        format.Amount(t.Profit),
			MarginRate:    t.MarginRate.StringFixed(2) + "%",
		},
	}
}

// toOrderResponse renders an order for the given role. Carriers do not see the
// shipper-facing ledger.
func toOrderResponse(o *domain.Order, role string, loc *time.Location) orderResponse {
	resp := orderResponse{
		Order:           o,
		ScheduleDisplay: format.Schedule(o.Schedule.PickupAt, o.Schedule.DeliveryAt, loc),
		TransitTime:     format.Duration(o.Schedule.Duration()),
		Links: orderLinks{
			Self:   "/v1/orders/" + o.OrderNumber,
			Ledger: "/v1/orders/" + o.OrderNumber + "/ledger",
		},
	}
	if role == domain.RoleCarrier {
		hidden := *o
		hidden.Ledger = domain.FeeLedger{Fees: []domain.AdditionalFee{}}
		resp.Order = &hidden
		return resp
	}
	resp.Totals = toTotalsResponse(o.Ledger.ComputeTotals())
	return resp
}
