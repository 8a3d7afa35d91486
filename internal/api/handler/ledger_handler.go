package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
)

// LedgerHandler exposes the settlement ledger of an order.
type LedgerHandler struct {
	ledger ports.LedgerService
}

func NewLedgerHandler(ledger ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Get handles GET /v1/orders/:order_number/ledger.
//
// @Summary      Get an order's fee ledger and totals
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        order_number  path      string  true  "Order number"
// @Success      200           {object}  ledgerResponse
// @Failure      403           {object}  errorResponse
// @Failure      404           {object}  errorResponse
// @Router       /v1/orders/{order_number}/ledger [get]
func (h *LedgerHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	view, err := h.ledger.GetLedger(c.Request().Context(), actor, c.Param("order_number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLedgerResponse(view))
}

// SetBase handles PUT /v1/orders/:order_number/ledger/base.
//
// @Summary      Set base charge and dispatch amounts
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_number  path      string          true  "Order number"
// @Param        body          body      setBaseRequest  true  "Base amounts"
// @Success      200           {object}  ledgerResponse
// @Failure      409           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Router       /v1/orders/{order_number}/ledger/base [put]
func (h *LedgerHandler) SetBase(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req setBaseRequest
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

	view, err := h.ledger.SetBaseAmounts(c.Request().Context(), actor, c.Param("order_number"), charge, dispatch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLedgerResponse(view))
}

// AddFee handles POST /v1/orders/:order_number/ledger/fees.
//
// @Summary      Add a surcharge
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_number  path      string         true  "Order number"
// @Param        body          body      addFeeRequest  true  "Fee"
// @Success      201           {object}  feeMutationResponse
// @Failure      409           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Router       /v1/orders/{order_number}/ledger/fees [post]
func (h *LedgerHandler) AddFee(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req addFeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	amount, err := req.Amount.parse()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "amount: "+err.Error())
	}

	fee, view, err := h.ledger.AddFee(c.Request().Context(), ports.AddFeeInput{
		OrderNumber: c.Param("order_number"),
		Type:        domain.FeeType(req.Type),
		Amount:      amount,
		Memo:        req.Memo,
		Target:      domain.FeeTarget(req.Target),
		Actor:       actor,
	})
	if err != nil {
		return err
	}
	resp := toFeeResponse(*fee)
	return c.JSON(http.StatusCreated, feeMutationResponse{Fee: &resp, Ledger: toLedgerResponse(view)})
}

// UpdateFee handles PATCH /v1/orders/:order_number/ledger/fees/:fee_id.
//
// @Summary      Update a surcharge
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_number  path      string            true  "Order number"
// @Param        fee_id        path      string            true  "Fee id"
// @Param        body          body      updateFeeRequest  true  "Fields to change"
// @Success      200           {object}  feeMutationResponse
// @Failure      409           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Router       /v1/orders/{order_number}/ledger/fees/{fee_id} [patch]
func (h *LedgerHandler) UpdateFee(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req updateFeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var patch domain.FeePatch
	if req.Type != nil {
		t := domain.FeeType(*req.Type)
		patch.Type = &t
	}
	if req.Amount != nil {
		amount, err := req.Amount.parse()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "amount: "+err.Error())
		}
		patch.Amount = &amount
	}
	patch.Memo = req.Memo
	if req.Target != nil {
		target := domain.FeeTarget(*req.Target)
		patch.Target = &target
	}

	fee, view, err := h.ledger.UpdateFee(c.Request().Context(), ports.UpdateFeeInput{
		OrderNumber: c.Param("order_number"),
		FeeID:       c.Param("fee_id"),
		Patch:       patch,
		Actor:       actor,
	})
	if err != nil {
		return err
	}
	if fee == nil {
		return c.JSON(http.StatusOK, feeMutationResponse{Ledger: toLedgerResponse(view)})
	}
	resp := toFeeResponse(*fee)
	return c.JSON(http.StatusOK, feeMutationResponse{Fee: &resp, Ledger: toLedgerResponse(view)})
}

// RemoveFee handles DELETE /v1/orders/:order_number/ledger/fees/:fee_id.
// Removing a fee that does not exist succeeds.
//
// @Summary      Remove a surcharge
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        order_number  path      string  true  "Order number"
// @Param        fee_id        path      string  true  "Fee id"
// @Success      200           {object}  feeMutationResponse
// @Failure      409           {object}  errorResponse
// @Router       /v1/orders/{order_number}/ledger/fees/{fee_id} [delete]
func (h *LedgerHandler) RemoveFee(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	view, err := h.ledger.RemoveFee(c.Request().Context(), actor, c.Param("order_number"), c.Param("fee_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feeMutationResponse{Ledger: toLedgerResponse(view)})
}

// ImportFees handles POST /v1/orders/:order_number/ledger/fees/import.
//
// @Summary      Import legacy fee records
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_number  path      string             true  "Order number"
// @Param        body          body      importFeesRequest  true  "Legacy records"
// @Success      200           {object}  importFeesResponse
// @Failure      409           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Router       /v1/orders/{order_number}/ledger/fees/import [post]
func (h *LedgerHandler) ImportFees(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req importFeesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.ledger.ImportFees(c.Request().Context(), actor, c.Param("order_number"), req.Fees)
	if err != nil {
		return err
	}

	rejected := make([]rejectedFeeResponse, 0, len(res.Rejected))
	for _, r := range res.Rejected {
		rejected = append(rejected, rejectedFeeResponse{Index: r.Index, Issues: r.Issues})
	}
	return c.JSON(http.StatusOK, importFeesResponse{
		Added:    len(res.Added),
		Rejected: rejected,
		Ledger:   toLedgerResponse(res.View),
	})
}
