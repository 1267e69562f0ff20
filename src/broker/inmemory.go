package broker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// subscriberBuffer is the channel capacity per subscriber. Ingest traffic is
// low volume; a small buffer absorbs bursts without unbounded memory.
const subscriberBuffer = 100

// InMemoryBroker is a channel-based Broker for single-process use.
type InMemoryBroker struct {
	mu     sync.RWMutex
	subs   map[string][]chan Message
	closed bool
}

// NewInMemoryBroker creates a new InMemoryBroker instance.
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subs: make(map[string][]chan Message),
	}
}

// Publish delivers the message to every subscriber of the topic. A stalled
// subscriber fails the publish rather than blocking it: the lock is held for
// the duration of the send, so waiting here would stall Close too.
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("broker is closed")
	}

	msg := Message{
		Topic:     topic,
		Key:       key,
		Value:     value,
		Timestamp: time.Now().UnixMilli(),
	}

	for _, ch := range b.subs[topic] {
		select {
		case ch <- msg:
		default:
			return fmt.Errorf("subscriber buffer full for topic %s", topic)
		}
	}

	return nil
}

// Subscribe registers a new subscriber channel for the topic.
// groupID is accepted for interface compatibility and ignored.
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("broker is closed")
	}

	ch := make(chan Message, subscriberBuffer)
	b.subs[topic] = append(b.subs[topic], ch)

	return ch, nil
}

// Close shuts down the broker and closes all subscriber channels.
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, channels := range b.subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	b.subs = make(map[string][]chan Message)

	return nil
}
