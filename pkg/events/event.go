package events

import (
	"context"
	"time"
)

// Event is a launch kit lifecycle notice. The NATS publisher routes it by
// EventType and serialises Payload and Timestamp into the message body.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// KitNotice carries the fields of one launch kit event. Constructors in this
// package fill it; callers never build one by hand.
type KitNotice struct {
	Kind string
	Body map[string]interface{}
	At   time.Time
}

func (n KitNotice) EventType() string { return n.Kind }

func (n KitNotice) Payload() map[string]interface{} { return n.Body }

func (n KitNotice) Timestamp() time.Time { return n.At }

// NopPublisher is installed when NATS is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
