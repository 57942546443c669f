// Package events publishes payment activity to interested consumers.
//
// Events are emitted after a write commits and delivered asynchronously by a
// Worker; delivery failures are logged and never surface to the RPC caller.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	PaymentRecorded        Type = "payment.recorded"
	PaymentConfirmed       Type = "payment.confirmed"
	PaymentUnconfirmed     Type = "payment.unconfirmed"
	PaymentDeleted         Type = "payment.deleted"
	ExpensePaymentRecorded Type = "expense_payment.recorded"
	ExpensePaymentDeleted  Type = "expense_payment.deleted"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	GroupID   string    `json:"group_id"`
	SubjectID string    `json:"subject_id"`
	Month     int       `json:"month,omitempty"`
	Year      int       `json:"year,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Option func(*Event)

func WithPeriod(month, year int) Option {
	return func(e *Event) {
		e.Month = month
		e.Year = year
	}
}

func WithAmount(amount float64) Option {
	return func(e *Event) {
		e.Amount = amount
	}
}

func WithActor(userID string) Option {
	return func(e *Event) {
		e.ActorID = userID
	}
}

// New builds an event about subjectID (a payment or expense payment id).
func New(t Type, groupID, subjectID string, opts ...Option) Event {
	e := Event{
		ID:        uuid.New().String(),
		Type:      t,
		GroupID:   groupID,
		SubjectID: subjectID,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers a single event.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Emitter accepts events without blocking the caller.
type Emitter interface {
	Emit(e Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(Event) {}
