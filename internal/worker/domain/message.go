package domain

import "github.com/cuongbtq/hireboard/internal/events"

// Acknowledger settles a delivery; amqp.Delivery satisfies it.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// EventMessage is a decoded pipeline event waiting in the worker pool
type EventMessage struct {
	Event       events.PipelineEvent
	DeliveryTag uint64
	Delivery    Acknowledger
}
