package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrUnroutable reports that the broker returned a mandatory publish:
// the exchange exists but no queue is bound for the routing key. The
// publisher does not retry these.
var ErrUnroutable = errors.New("rabbit: message unroutable")

const (
	publishAttempts = 3
	retryBaseDelay  = 2 * time.Second
	confirmTimeout  = 5 * time.Second
	brokerHeartbeat = 60 * time.Second
)

// EventPublisher is the sink the monitor publishes events through.
type EventPublisher interface {
	Publish(routingKey string, body any) error
	Close() error
}

// confirmation is the slice of amqp.DeferredConfirmation the publisher
// waits on.
type confirmation interface {
	Wait() bool
}

// brokerChannel abstracts the confirm-mode channel so tests can script
// publish outcomes without a broker.
type brokerChannel interface {
	publish(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) (confirmation, error)
	returns() <-chan amqp.Return
	isClosed() bool
}

type brokerConn interface {
	Close() error
}

// dialFunc connects to the broker and hands back a ready channel: the
// exchange declared and confirm mode on.
type dialFunc func(url, exchange string) (brokerConn, brokerChannel, error)

// Publisher delivers JSON events to one durable topic exchange with
// publisher confirms and mandatory routing. Connections are created
// lazily and re-created per retry attempt after a failure.
type Publisher struct {
	url      string
	exchange string

	mu      sync.Mutex
	conn    brokerConn
	channel brokerChannel

	// dial and sleep are swapped out in tests.
	dial  dialFunc
	sleep func(time.Duration)
}

// NewPublisher creates a publisher for the given exchange. No connection
// is made until the first Publish.
func NewPublisher(url, exchange string) *Publisher {
	return &Publisher{
		url:      url,
		exchange: exchange,
		dial:     dialAMQP,
		sleep:    time.Sleep,
	}
}

// dialAMQP opens the real broker connection, declares the exchange, and
// puts the channel in confirm mode.
func dialAMQP(rawURL, exchange string) (brokerConn, brokerChannel, error) {
	conn, err := amqp.DialConfig(rawURL, amqp.Config{Heartbeat: brokerHeartbeat})
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", redactURL(rawURL), err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("confirm mode: %w", err)
	}
	return conn, &amqpChannel{ch: ch, ret: ch.NotifyReturn(make(chan amqp.Return, 1))}, nil
}

// amqpChannel adapts *amqp.Channel to brokerChannel.
type amqpChannel struct {
	ch  *amqp.Channel
	ret chan amqp.Return
}

func (c *amqpChannel) publish(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) (confirmation, error) {
	return c.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, routingKey,
		true,  // mandatory
		false, // immediate
		msg)
}

func (c *amqpChannel) returns() <-chan amqp.Return { return c.ret }
func (c *amqpChannel) isClosed() bool              { return c.ch.IsClosed() }

// connectLocked dials the broker if no open channel exists. Caller
// holds p.mu.
func (p *Publisher) connectLocked() error {
	if p.channel != nil && !p.channel.isClosed() {
		return nil
	}
	p.closeLocked()

	conn, ch, err := p.dial(p.url, p.exchange)
	if err != nil {
		return err
	}
	p.conn = conn
	p.channel = ch
	log.Printf("rabbit: connected to %s, exchange %s", redactURL(p.url), p.exchange)
	return nil
}

// Publish marshals body and delivers it to the exchange under routingKey.
// Connection and broker errors are retried with a linearly growing delay;
// marshal errors and unroutable returns are not.
func (p *Publisher) Publish(routingKey string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		if attempt > 1 {
			p.sleep(retryDelay(attempt - 1))
		}
		if err := p.connectLocked(); err != nil {
			lastErr = err
			log.Printf("rabbit: connect attempt %d/%d failed: %v", attempt, publishAttempts, err)
			continue
		}
		err := p.publishOnceLocked(routingKey, data)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrUnroutable) {
			log.Printf("rabbit: %s unroutable on exchange %s", routingKey, p.exchange)
			return err
		}
		lastErr = err
		log.Printf("rabbit: publish attempt %d/%d failed: %v", attempt, publishAttempts, err)
		p.closeLocked()
	}
	return fmt.Errorf("publish %s after %d attempts: %w", routingKey, publishAttempts, lastErr)
}

func (p *Publisher) publishOnceLocked(routingKey string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), confirmTimeout)
	defer cancel()

	dc, err := p.channel.publish(ctx, p.exchange, routingKey, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         data,
	})
	if err != nil {
		return err
	}
	if !dc.Wait() {
		return fmt.Errorf("broker nacked publish to %s", routingKey)
	}
	// A basic.return for a mandatory message precedes the confirm ack,
	// so a queued return here means this publish was dropped.
	select {
	case ret := <-p.channel.returns():
		return fmt.Errorf("%w: %s (%d %s)", ErrUnroutable, ret.RoutingKey, ret.ReplyCode, ret.ReplyText)
	default:
	}
	return nil
}

// IsConnected reports whether an open channel exists without dialing.
func (p *Publisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel != nil && !p.channel.isClosed()
}

// Close shuts down the connection; Publish afterwards will redial.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

func (p *Publisher) closeLocked() {
	if p.conn != nil {
		p.conn.Close()
	}
	p.conn = nil
	p.channel = nil
}

// retryDelay grows linearly with the number of failures so far.
func retryDelay(failures int) time.Duration {
	return retryBaseDelay * time.Duration(failures)
}

// redactURL strips credentials from an AMQP URL for logging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable url)"
	}
	return u.Redacted()
}
