package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
)

// OrderHandler handles HTTP requests for orders and their dispatch.
type OrderHandler struct {
	orders   ports.OrderService
	dispatch ports.DispatchService
	loc      *time.Location
}

func NewOrderHandler(orders ports.OrderService, dispatch ports.DispatchService, loc *time.Location) *OrderHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderHandler{orders: orders, dispatch: dispatch, loc: loc}
}

// Create handles POST /v1/orders.
//
// @Summary      Register a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createOrderRequest  true   "Order details"
// @Success      201              {object}  orderResponse
// @Success      200              {object}  orderResponse  "Replayed idempotent request"
// @Failure      400              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	charge, err := req.BaseChargeAmount.parse()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "base_charge_amount: "+err.Error())
	}
	dispatch, err := req.BaseDispatchAmount.parse()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "base_dispatch_amount: "+err.Error())
	}

	result, err := h.orders.CreateOrder(c.Request().Context(), ports.CreateOrderInput{
		ShipperCompanyID:   req.ShipperCompanyID,
		Origin:             domain.Address(req.Origin),
		Destination:        domain.Address(req.Destination),
		Schedule:           domain.Schedule{PickupAt: req.Schedule.PickupAt.UTC(), DeliveryAt: req.Schedule.DeliveryAt.UTC()},
		Cargo:              domain.Cargo(req.Cargo),
		BaseChargeAmount:   charge,
		BaseDispatchAmount: dispatch,
		IdempotencyKey:     c.Request().Header.Get("Idempotency-Key"),
		Actor:              actor,
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, toOrderResponse(result.Order, actor.Role, h.loc))
}

// Get handles GET /v1/orders/:order_number.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        order_number  path      string  true  "Order number (e.g. FB-7A8B9C2D)"
// @Success      200           {object}  orderResponse
// @Failure      404           {object}  errorResponse
// @Router       /v1/orders/{order_number} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	order, err := h.orders.GetOrder(c.Request().Context(), actor, c.Param("order_number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order, actor.Role, h.loc))
}

// List handles GET /v1/orders.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "Order status"
// @Param        shipper_id  query     string  false  "Shipper company id"
// @Param        carrier_id  query     string  false  "Carrier company id"
// @Param        q           query     string  false  "Order number or cargo search"
// @Param        from        query     string  false  "Pickup from (RFC3339)"
// @Param        to          query     string  false  "Pickup to (RFC3339)"
// @Param        page        query     int     false  "Page (1-based)"
// @Param        limit       query     int     false  "Page size (max 100)"
// @Success      200         {object}  listOrdersResponse
// @Failure      400         {object}  errorResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	in := ports.ListOrdersInput{
		Actor:            actor,
		Status:           c.QueryParam("status"),
		ShipperCompanyID: c.QueryParam("shipper_id"),
		CarrierCompanyID: c.QueryParam("carrier_id"),
		Search:           c.QueryParam("q"),
		Page:             queryInt(c, "page"),
		Limit:            queryInt(c, "limit"),
	}
	if in.DateFrom, err = queryTime(c, "from"); err != nil {
		return err
	}
	if in.DateTo, err = queryTime(c, "to"); err != nil {
		return err
	}

	res, err := h.orders.ListOrders(c.Request().Context(), in)
	if err != nil {
		return err
	}

	items := make([]orderResponse, 0, len(res.Items))
	for _, o := range res.Items {
		items = append(items, toOrderResponse(o, actor.Role, h.loc))
	}
	return c.JSON(http.StatusOK, listOrdersResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Cancel handles POST /v1/orders/:order_number/cancel.
//
// @Summary      Cancel an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_number  path      string              true   "Order number"
// @Param        body          body      cancelOrderRequest  false  "Reason"
// @Success      200           {object}  orderResponse
// @Failure      404           {object}  errorResponse
// @Failure      409           {object}  errorResponse
// @Router       /v1/orders/{order_number}/cancel [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req cancelOrderRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}
	order, err := h.orders.CancelOrder(c.Request().Context(), actor, c.Param("order_number"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order, actor.Role, h.loc))
}

// CloseSettlement handles POST /v1/orders/:order_number/settlement/close.
//
// @Summary      Close the settlement of a delivered order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        order_number  path      string  true  "Order number"
// @Success      200           {object}  orderResponse
// @Failure      403           {object}  errorResponse
// @Failure      409           {object}  errorResponse
// @Router       /v1/orders/{order_number}/settlement/close [post]
func (h *OrderHandler) CloseSettlement(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	order, err := h.orders.CloseSettlement(c.Request().Context(), actor, c.Param("order_number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order, actor.Role, h.loc))
}

// Dispatch handles POST /v1/orders/:order_number/dispatch.
//
// @Summary      Assign a carrier and driver
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_number  path      string                 true  "Order number"
// @Param        body          body      assignDispatchRequest  true  "Assignment"
// @Success      200           {object}  orderResponse
// @Failure      404           {object}  errorResponse
// @Failure      409           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Router       /v1/orders/{order_number}/dispatch [post]
func (h *OrderHandler) Dispatch(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req assignDispatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.dispatch.Assign(c.Request().Context(), ports.AssignDispatchInput{
		OrderNumber:      c.Param("order_number"),
		CarrierCompanyID: req.CarrierCompanyID,
		DriverName:       req.DriverName,
		DriverPhone:      req.DriverPhone,
		VehicleNumber:    req.VehicleNumber,
		NotifyDriver:     req.NotifyDriver,
		Actor:            actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order, actor.Role, h.loc))
}

func queryTime(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" must be RFC3339")
	}
	return t, nil
}
