package ports

import "context"

// SMSJob is the message placed on the sms_jobs queue for the SMS gateway worker.
type SMSJob struct {
	Recipient string `json:"recipient"`
	Role      string `json:"role"`
	Template  string `json:"template"`
	Message   string `json:"message"`
}

// SMSPublisher hands SMS jobs to the messaging layer.
type SMSPublisher interface {
	PublishSMS(ctx context.Context, job SMSJob) error
}

// SendSMSInput asks for a templated SMS to a driver, manager or shipper contact.
type SendSMSInput struct {
	Recipient string
	Role      string
	Template  string
	Vars      map[string]string
}

// NotificationService renders and queues outbound notifications.
type NotificationService interface {
	SendSMS(ctx context.Context, input SendSMSInput) (*SMSJob, error)
}
