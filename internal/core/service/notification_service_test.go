package service

import (
	"context"
	"errors"
	"testing"

	"github.com/haulwise/backoffice/internal/core/ports"
)

func TestNotification_RendersTemplate(t *testing.T) {
	pub := &stubPublisher{}
	svc := NewNotificationService(pub, discardLogger)

	job, err := svc.SendSMS(context.Background(), ports.SendSMSInput{
		Recipient: "010 9876 5432",
		Role:      "manager",
		Template:  TemplateStatusChanged,
		Vars:      map[string]string{"order_number": "FB-1", "status": "delivered"},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	want := "[Status] Order FB-1 is now delivered."
	if job.Message != want || job.Recipient != "010-9876-5432" {
		t.Errorf("unexpected job %+v", job)
	}
	if len(pub.jobs) != 1 {
		t.Errorf("expected job to be published")
	}
}

func TestNotification_Rejections(t *testing.T) {
	pub := &stubPublisher{}
	svc := NewNotificationService(pub, discardLogger)

	_, err := svc.SendSMS(context.Background(), ports.SendSMSInput{Recipient: "01012345678", Template: "promo"})
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got %v", err)
	}

	_, err = svc.SendSMS(context.Background(), ports.SendSMSInput{Recipient: "12", Template: TemplateCustom})
	if !errors.Is(err, ErrInvalidRecipient) {
		t.Errorf("expected ErrInvalidRecipient, got %v", err)
	}
	if len(pub.jobs) != 0 {
		t.Error("rejected messages must not be published")
	}
}

func TestNotification_PublishFailure(t *testing.T) {
	svc := NewNotificationService(&stubPublisher{err: errors.New("channel closed")}, discardLogger)

	_, err := svc.SendSMS(context.Background(), ports.SendSMSInput{
		Recipient: "01012345678",
		Template:  TemplateCustom,
		Vars:      map[string]string{"message": "hi"},
	})
	if err == nil {
		t.Fatal("expected publish error")
	}
}

func TestRender_LeavesUnknownPlaceholders(t *testing.T) {
	got := render("{{a}} and {{b}}", map[string]string{"a": "x"})
	if got != "x and {{b}}" {
		t.Errorf("got %q", got)
	}
}
