// Package notify publishes job events for driver apps. Publishing is
// best-effort everywhere it is called: a broker outage must never fail the
// operation that produced the event.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/jobs"
)

// JobCreatedMessage mirrors the driver notification payload; no customer
// phone or VIN travels on the bus.
type JobCreatedMessage struct {
	JobID           string  `json:"job_id"`
	Type            string  `json:"type"`
	Year            *int    `json:"year"`
	Make            *string `json:"make"`
	Model           *string `json:"model"`
	PickupAddress   string  `json:"pickup_address"`
	DeliveryAddress string  `json:"delivery_address"`
	DistanceMiles   int     `json:"distance_miles"`
	RequiresTwo     bool    `json:"requires_two"`
	CustomerName    *string `json:"customer_name"`
}

type Publisher struct {
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{ch: ch, exchange: exchange}, nil
}

func (p *Publisher) PublishJobCreated(ctx context.Context, job *jobs.Job) error {
	msg := JobCreatedMessage{
		JobID:           job.ID.String(),
		Type:            job.Type,
		Year:            job.Year,
		Make:            job.Make,
		Model:           job.Model,
		PickupAddress:   job.PickupAddress,
		DeliveryAddress: job.DeliveryAddress,
		DistanceMiles:   job.DistanceMiles,
		RequiresTwo:     job.RequiresTwo,
		CustomerName:    job.CustomerName,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal job created message: %w", err)
	}

	routingKey := "job.created." + job.Type
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	}); err != nil {
		return fmt.Errorf("publish job created: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}
