package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
)

// EventDispatcher is the interface the handler uses to enqueue events.
type EventDispatcher interface {
	Enqueue(event ports.StatusEventInput) error
	EnqueueBatch(events []ports.StatusEventInput) (int, error)
}

// EventHandler handles status event ingestion.
type EventHandler struct {
	dispatcher EventDispatcher
}

// NewEventHandler creates an EventHandler backed by the given dispatcher.
func NewEventHandler(dispatcher EventDispatcher) *EventHandler {
	return &EventHandler{dispatcher: dispatcher}
}

// Receive handles POST /v1/events. The event is processed asynchronously.
//
// @Summary      Ingest a single status event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      statusEventRequest  true  "Status event"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/events [post]
func (h *EventHandler) Receive(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req statusEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.dispatcher.Enqueue(toEventInput(req, actor)); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}

// ReceiveBatch handles POST /v1/events/batch. Every event is validated before
// any is enqueued.
//
// @Summary      Ingest a batch of status events
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []statusEventRequest  true  "Array of status events"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/events/batch [post]
func (h *EventHandler) ReceiveBatch(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var reqs []statusEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.StatusEventInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toEventInput(req, actor))
	}

	n, err := h.dispatcher.EnqueueBatch(inputs)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable,
			fmt.Sprintf("accepted %d of %d events: %v", n, len(inputs), err))
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "events accepted",
		Count:   n,
	})
}

func toEventInput(r statusEventRequest, actor ports.Actor) ports.StatusEventInput {
	in := ports.StatusEventInput{
		OrderNumber: r.OrderNumber,
		Status:      r.Status,
		Timestamp:   r.Timestamp,
		Source:      r.Source,
		Notes:       r.Notes,
	}
	if actor.Role == domain.RoleCarrier {
		in.CarrierCompanyID = actor.CompanyID
	}
	return in
}
