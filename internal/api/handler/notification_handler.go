package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haulwise/backoffice/internal/core/ports"
)

type sendSMSRequest struct {
	Recipient string            `json:"recipient" validate:"required"`
	Role      string            `json:"role"      validate:"required,oneof=driver manager shipper"`
	Template  string            `json:"template"  validate:"required"`
	Vars      map[string]string `json:"vars"`
}

// NotificationHandler queues outbound SMS.
type NotificationHandler struct {
	notifier ports.NotificationService
}

func NewNotificationHandler(notifier ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// SendSMS handles POST /v1/notifications/sms.
//
// @Summary      Queue a templated SMS
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendSMSRequest  true  "Message"
// @Success      202   {object}  ports.SMSJob
// @Failure      422   {object}  errorResponse
// @Router       /v1/notifications/sms [post]
func (h *NotificationHandler) SendSMS(c echo.Context) error {
	var req sendSMSRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	job, err := h.notifier.SendSMS(c.Request().Context(), ports.SendSMSInput{
		Recipient: req.Recipient,
		Role:      req.Role,
		Template:  req.Template,
		Vars:      req.Vars,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, job)
}
