package amqp

import (
	"context"
	"errors"
	"sync/atomic"

	"fairdash/internal/log"
	"fairdash/internal/source"
)

const defaultQueueSize = 32

// publisher is the part of Client the notifier depends on.
type publisher interface {
	Publish(ctx context.Context, notice *FetchFailureNotice) error
}

// Notifier queues fetch failure notices and publishes them from a single
// background goroutine, so a slow or absent broker never delays a refresh.
type Notifier struct {
	pub     publisher
	source  string
	queue   chan *FetchFailureNotice
	logger  *log.Logger
	dropped atomic.Int64
}

// NewNotifier creates a notifier tagging every notice with sourceName.
func NewNotifier(pub publisher, sourceName string, logger *log.Logger) *Notifier {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Notifier{
		pub:    pub,
		source: sourceName,
		queue:  make(chan *FetchFailureNotice, defaultQueueSize),
		logger: logger.WithComponent(log.ComponentAMQP),
	}
}

// NotifyFetchFailure enqueues a notice. When the queue is full the notice is
// dropped and counted.
func (n *Notifier) NotifyFetchFailure(err error) {
	reason := ReasonError
	if errors.Is(err, source.ErrNoRows) {
		reason = ReasonEmpty
	}
	notice := NewFetchFailureNotice(n.source, reason, err)

	select {
	case n.queue <- notice:
	default:
		n.dropped.Add(1)
		n.logger.Warn("Fetch failure notice queue full, dropping notice", log.FieldNoticeID, notice.ID)
	}
}

// Dropped returns how many notices were discarded because the queue was full.
func (n *Notifier) Dropped() int64 {
	return n.dropped.Load()
}

// Run publishes queued notices until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case notice := <-n.queue:
			if err := n.pub.Publish(ctx, notice); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				n.logger.WarnContext(ctx, "Failed to publish fetch failure notice",
					log.FieldNoticeID, notice.ID,
					log.FieldError, err)
			}
		}
	}
}
