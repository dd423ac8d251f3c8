package rabbit

import (
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one decoded command message. A returned error means
// the message was understood but could not be acted on; it is logged and
// the message is acked, not redelivered.
type Handler func(msg map[string]any) error

const (
	consumerReconnectDelay = 5 * time.Second
	consumerStartupGrace   = 100 * time.Millisecond
	consumerStopTimeout    = 10 * time.Second
)

// Consumer runs a background subscription on one queue bound to a topic
// exchange and feeds decoded messages to a single handler. It reconnects
// on connection loss until stopped.
type Consumer struct {
	url        string
	queue      string
	exchange   string
	routingKey string

	handler Handler

	stop chan struct{}
	done chan struct{}
}

// NewConsumer creates a consumer for the given queue binding. Call
// SetHandler before Start.
func NewConsumer(url, queue, exchange, routingKey string) *Consumer {
	return &Consumer{
		url:        url,
		queue:      queue,
		exchange:   exchange,
		routingKey: routingKey,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// SetHandler registers the callback for decoded messages.
func (c *Consumer) SetHandler(h Handler) { c.handler = h }

// Start launches the consume loop and reports whether it came up. A
// failed first connect is not fatal; the loop keeps retrying in the
// background.
func (c *Consumer) Start() bool {
	if c.handler == nil {
		log.Printf("rabbit: consumer started without a handler, refusing")
		return false
	}
	go c.run()
	time.Sleep(consumerStartupGrace)
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Stop signals the loop to exit and waits for it, bounded by a timeout.
func (c *Consumer) Stop() {
	close(c.stop)
	select {
	case <-c.done:
	case <-time.After(consumerStopTimeout):
		log.Printf("rabbit: consumer did not stop within %s", consumerStopTimeout)
	}
}

func (c *Consumer) run() {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			return
		default:
		}

		if err := c.consumeOnce(); err != nil {
			log.Printf("rabbit: consumer on queue %s: %v", c.queue, err)
		}

		select {
		case <-c.stop:
			return
		case <-time.After(consumerReconnectDelay):
		}
	}
}

// consumeOnce holds one connection for its lifetime: declare, bind,
// consume, and drain deliveries until the connection drops or Stop is
// called.
func (c *Consumer) consumeOnce() error {
	conn, err := amqp.DialConfig(c.url, amqp.Config{Heartbeat: brokerHeartbeat})
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(c.exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(c.queue, c.routingKey, c.exchange, false, nil); err != nil {
		return err
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	log.Printf("rabbit: consuming queue %s (%s -> %s)", c.queue, c.exchange, c.routingKey)

	for {
		select {
		case <-c.stop:
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handle(d)
		}
	}
}

// handle decodes and dispatches one delivery. Malformed JSON is nacked
// without requeue; handler errors are acked so a bad command is not
// redelivered forever.
func (c *Consumer) handle(d amqp.Delivery) {
	var msg map[string]any
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Printf("rabbit: malformed message on %s: %v", c.queue, err)
		if err := d.Nack(false, false); err != nil {
			log.Printf("rabbit: nack failed: %v", err)
		}
		return
	}

	if err := c.handler(msg); err != nil {
		log.Printf("rabbit: handler error for message on %s: %v", c.queue, err)
	}
	if err := d.Ack(false); err != nil {
		log.Printf("rabbit: ack failed: %v", err)
	}
}
