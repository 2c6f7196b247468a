package events

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Publisher публикует события календаря в обменник.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewPublisher создаёт издателя поверх открытого канала.
func NewPublisher(ch *amqp.Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Publish сериализует событие и публикует его с routing key.
func (p *Publisher) Publish(routingKey string, ev Event) error {
	const op = "events.Publish"

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NopPublisher заглушка для работы без брокера: адрес RabbitMQ в
// конфиге не задан, события молча отбрасываются.
type NopPublisher struct{}

func (NopPublisher) Publish(string, Event) error { return nil }
