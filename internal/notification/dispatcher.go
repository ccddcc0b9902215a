package notification

import (
	"go.uber.org/zap"

	"github.com/workhive/workhive-api/internal/logger"
	"github.com/workhive/workhive-api/internal/realtime"
)

type Event struct {
	UserID           uint
	Type             string
	Message          string
	RelatedBookingID *uint
}

// Notifier is what usecases depend on; the Dispatcher is the real one.
type Notifier interface {
	Dispatch(ev Event)
}

// Dispatcher persists notifications off the request path and pushes them
// to the recipient's live topic. A full queue drops the event: a lost
// notification must never fail the API call that caused it.
type Dispatcher struct {
	store  *Store
	broker *realtime.Broker
	queue  chan Event
}

func NewDispatcher(store *Store, broker *realtime.Broker) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		broker: broker,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		n, err := d.store.Save(ev.UserID, ev.Type, ev.Message, ev.RelatedBookingID)
		if err != nil {
			logger.Error("notification save failed", zap.Error(err))
			continue
		}

		d.broker.Publish(realtime.UserTopic(ev.UserID), realtime.Event{
			Type: realtime.EventNotificationNew,
			Data: n,
		})
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		logger.Warn("notification queue full, dropping event")
	}
}
