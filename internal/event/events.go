package event

import (
	"context"
	"time"
)

type CustomerEventPayload struct {
	CustomerID int64     `json:"customerId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	CPF        string    `json:"cpf"`
	Email      string    `json:"email"`
	Income     float64   `json:"income"`
	ZipCode    string    `json:"zipCode"`
	Street     string    `json:"street"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerUpdatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CreditEventPayload struct {
	CreditCode           string  `json:"creditCode"`
	CreditValue          float64 `json:"creditValue"`
	NumberOfInstallments int     `json:"numberOfInstallments"`
	Status               string  `json:"status"`
	CustomerID           int64   `json:"customerId"`
	CustomerEmail        string  `json:"customerEmail"`
}

type CreditAppliedEvent struct {
	Timestamp time.Time          `json:"timestamp"`
	Payload   CreditEventPayload `json:"payload"`
}

type EventPublisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
	PublishCustomerUpdated(ctx context.Context, event CustomerUpdatedEvent) error
	PublishCreditApplied(ctx context.Context, event CreditAppliedEvent) error
}

// NoopEventPublisher stands in when no broker is configured or reachable;
// requests must not depend on the messaging plane.
type NoopEventPublisher struct{}

var _ EventPublisher = NoopEventPublisher{}

func (NoopEventPublisher) PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error {
	return nil
}

func (NoopEventPublisher) PublishCustomerUpdated(ctx context.Context, event CustomerUpdatedEvent) error {
	return nil
}

func (NoopEventPublisher) PublishCreditApplied(ctx context.Context, event CreditAppliedEvent) error {
	return nil
}
