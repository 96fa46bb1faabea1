// Package amqp publishes fetch failure notices to RabbitMQ so operators can
// tell a broken data source apart from a quiet event.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"fairdash/internal/log"
)

// Circuit breaker states
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	publishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
)

var (
	// ErrCircuitOpen is returned while the broker is considered unavailable.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrReconnectBackoff is returned when a reconnect was attempted too recently.
	ErrReconnectBackoff = errors.New("waiting before next reconnect attempt")
)

// Client owns one connection and channel and re-dials lazily after losing them.
type Client struct {
	url          string
	exchangeName string
	queueName    string
	logger       *log.Logger

	mu                sync.Mutex
	conn              *amqp091.Connection
	channel           *amqp091.Channel
	reconnectAttempts int
	nextReconnect     time.Time

	state        int32
	failureCount int64
	lastFailure  time.Time
}

// NewClient returns a client that connects on first use.
func NewClient(url, exchangeName, queueName string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logger.WithComponent(log.ComponentAMQP),
	}
}

// Connect dials the broker and declares the exchange and queue.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *Client) connectLocked() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := setup(channel, c.exchangeName, c.queueName); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	c.conn, c.channel = conn, channel
	c.reconnectAttempts = 0
	c.nextReconnect = time.Time{}
	return nil
}

func setup(ch *amqp091.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// routing key is the queue name on a direct exchange
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// ensureChannel returns an open channel, re-dialing with exponential backoff.
// It never sleeps: a caller arriving before the next allowed attempt gets
// ErrReconnectBackoff.
func (c *Client) ensureChannel() (*amqp091.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil && !c.channel.IsClosed() && c.conn != nil && !c.conn.IsClosed() {
		return c.channel, nil
	}
	c.resetLocked()

	if time.Now().Before(c.nextReconnect) {
		return nil, ErrReconnectBackoff
	}
	if err := c.connectLocked(); err != nil {
		c.nextReconnect = time.Now().Add(exponentialBackoff(c.reconnectAttempts))
		c.reconnectAttempts++
		return nil, err
	}
	c.logger.Info("Connected to AMQP broker", "exchange", c.exchangeName, "queue", c.queueName)
	return c.channel, nil
}

func (c *Client) resetLocked() {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Publish sends one notice as a persistent JSON message.
func (c *Client) Publish(ctx context.Context, notice *FetchFailureNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("publish fetch failure notice: %w", ErrCircuitOpen)
	}

	body, err := notice.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	ch, err := c.ensureChannel()
	if err != nil {
		if !errors.Is(err, ErrReconnectBackoff) {
			c.recordFailure()
		}
		return fmt.Errorf("publish fetch failure notice: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    notice.ID,
			Timestamp:    notice.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		if isConnectionError(err) {
			c.mu.Lock()
			c.resetLocked()
			c.mu.Unlock()
		}
		return fmt.Errorf("publish fetch failure notice: %w", err)
	}

	c.recordSuccess()
	c.logger.DebugContext(ctx, "Published fetch failure notice",
		log.FieldNoticeID, notice.ID,
		"reason", notice.Reason)
	return nil
}

// isCircuitOpen reports whether publishing should be skipped. An open circuit
// turns half-open once openTimeout has passed since the last failure.
func (c *Client) isCircuitOpen() bool {
	switch atomic.LoadInt32(&c.state) {
	case StateOpen:
		c.mu.Lock()
		last := c.lastFailure
		c.mu.Unlock()
		if time.Since(last) > openTimeout {
			atomic.CompareAndSwapInt32(&c.state, StateOpen, StateHalfOpen)
			return false
		}
		return true
	default:
		return false
	}
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()

	failures := atomic.AddInt64(&c.failureCount, 1)
	if atomic.LoadInt32(&c.state) == StateHalfOpen || failures >= maxFailures {
		if atomic.SwapInt32(&c.state, StateOpen) != StateOpen {
			c.logger.Warn("AMQP circuit breaker opened", "failures", failures)
		}
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

// exponentialBackoff returns 1s, 2s, 4s, ... capped at 30s.
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	return min(time.Second<<attempt, maxBackoff)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "closed network", "channel/connection is not open"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
