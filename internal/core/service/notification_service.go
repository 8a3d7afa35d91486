package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/haulwise/backoffice/internal/core/ports"
	"github.com/haulwise/backoffice/internal/pkg/metrics"
	"github.com/haulwise/backoffice/pkg/format"
)

const (
	TemplateDispatchAssigned = "dispatch_assigned"
	TemplateStatusChanged    = "status_changed"
	TemplateCustom           = "custom"
)

var ErrUnknownTemplate = errors.New("unknown message template")
var ErrInvalidRecipient = errors.New("recipient must be a phone number")

// smsTemplates uses {{name}} placeholders filled from SendSMSInput.Vars.
var smsTemplates = map[string]string{
	TemplateDispatchAssigned: "[Dispatch] Order {{order_number}}: pickup {{pickup}} at {{origin}}, deliver to {{destination}}. Vehicle {{vehicle}}.",
	TemplateStatusChanged:    "[Status] Order {{order_number}} is now {{status}}.",
	TemplateCustom:           "{{message}}",
}

type NotificationService struct {
	publisher ports.SMSPublisher
	log       zerolog.Logger
}

func NewNotificationService(publisher ports.SMSPublisher, log zerolog.Logger) *NotificationService {
	return &NotificationService{publisher: publisher, log: log}
}

// SendSMS renders the template and queues the message for the SMS gateway.
func (s *NotificationService) SendSMS(ctx context.Context, in ports.SendSMSInput) (*ports.SMSJob, error) {
	tmpl, ok := smsTemplates[in.Template]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTemplate, in.Template)
	}

	recipient := format.Phone(in.Recipient)
	if !strings.Contains(recipient, "-") {
		return nil, ErrInvalidRecipient
	}

	job := ports.SMSJob{
		Recipient: recipient,
		Role:      in.Role,
		Template:  in.Template,
		Message:   render(tmpl, in.Vars),
	}

	if err := s.publisher.PublishSMS(ctx, job); err != nil {
		metrics.SMSQueuedTotal.WithLabelValues(in.Template, "error").Inc()
		return nil, fmt.Errorf("publish sms: %w", err)
	}
	metrics.SMSQueuedTotal.WithLabelValues(in.Template, "ok").Inc()

	s.log.Info().Str("recipient", recipient).Str("template", in.Template).Str("role", in.Role).Msg("sms queued")
	return &job, nil
}

func render(tmpl string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
