package realtime

import (
	"fmt"
	"sync"
)

type EventType string

const (
	EventMessageNew          EventType = "message:new"
	EventConversationCreated EventType = "conversation:created"
	EventNotificationNew     EventType = "notification:new"
	EventBookingUpdated      EventType = "booking:updated"
)

type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// UserTopic is the per-user fan-out channel: new conversations,
// notifications and message previews land here.
func UserTopic(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// ConversationTopic carries the ordered message stream of one conversation.
func ConversationTopic(conversationID string) string {
	return "conversation:" + conversationID
}

// ======================================================
// BROKER
// ======================================================

// Broker is an in-process topic bus. Subscriptions own their channel and
// are torn down with Cancel; a cancelled subscription never receives
// another event. Publish never blocks: a subscriber that cannot keep up
// loses events instead of stalling the publisher.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: map[string]map[*Subscription]struct{}{},
	}
}

type Subscription struct {
	topic  string
	ch     chan Event
	broker *Broker
	once   sync.Once
}

func (b *Broker) Subscribe(topic string) *Subscription {
	s := &Subscription{
		topic:  topic,
		ch:     make(chan Event, 64),
		broker: b,
	}

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = map[*Subscription]struct{}{}
	}
	b.subs[topic][s] = struct{}{}
	b.mu.Unlock()

	return s
}

// Events is closed when the subscription is cancelled.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Topic() string {
	return s.topic
}

// Cancel detaches the subscription and closes its channel. Safe to call
// more than once. The channel is only closed after the subscription has
// been removed under the write lock, so no publish can race the close.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		b := s.broker

		b.mu.Lock()
		if set, ok := b.subs[s.topic]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(b.subs, s.topic)
			}
		}
		b.mu.Unlock()

		close(s.ch)
	})
}

func (b *Broker) Publish(topic string, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs[topic] {
		select {
		case s.ch <- ev:
		default:
			// subscriber too slow, drop
		}
	}
}

// Subscribers reports the live subscription count for a topic.
func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
