package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/haulwise/backoffice/internal/core/ports"
)

type fakeChannel struct {
	declared   []string
	declareErr error
	published  []amqp.Publishing
	keys       []string
	closed     bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if f.declareErr != nil {
		return amqp.Queue{}, f.declareErr
	}
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_PublishSMS(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, SMSQueue)
	if err != nil {
		t.Fatalf("newPublisher: %v", err)
	}
	if len(ch.declared) != 1 || ch.declared[0] != "sms_jobs" {
		t.Fatalf("queue not declared: %v", ch.declared)
	}

	job := ports.SMSJob{Recipient: "010-1234-5678", Role: "driver", Template: "custom", Message: "hello"}
	if err := p.PublishSMS(context.Background(), job); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(ch.published) != 1 || ch.keys[0] != SMSQueue {
		t.Fatalf("unexpected publishes %v", ch.keys)
	}
	msg := ch.published[0]
	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" {
		t.Errorf("unexpected message properties %+v", msg)
	}
	var got ports.SMSJob
	if err := json.Unmarshal(msg.Body, &got); err != nil || got != job {
		t.Errorf("body mismatch: %s (%v)", msg.Body, err)
	}
}

func TestPublisher_DeclareFailureClosesChannel(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("access refused")}
	if _, err := newPublisher(ch, SMSQueue); err == nil {
		t.Fatal("expected error")
	}
	if !ch.closed {
		t.Error("channel should be closed after a failed declare")
	}
}
