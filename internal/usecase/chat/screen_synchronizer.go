package chat

import (
	"context"
	"sync"

	domain "github.com/workhive/workhive-api/internal/domain/chat"
	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/models"
	"github.com/workhive/workhive-api/internal/realtime"
)

// ======================================================
// CHAT SCREEN SYNCHRONIZER
// ======================================================

type ScreenState int

const (
	StateIdle ScreenState = iota
	StateLoading
	StateLive
)

// ScreenSynchronizer drives one open conversation: it ensures the
// conversation exists, replays the full log, then tails new appends.
// A broken stream keeps the last-known log and surfaces the error
// without dropping out of the live state.
type ScreenSynchronizer struct {
	selfID uint
	peerID uint

	ensure   *GetOrCreateConversation
	sender   *SendMessage
	msgs     domain.MessageStore
	profiles domain.ProfileStore
	broker   *realtime.Broker

	mu      sync.Mutex
	state   ScreenState
	convID  string
	partner *models.User
	log     []models.Message
	seen    map[string]struct{}
	lastErr error
	sub     *realtime.Subscription
	closed  bool

	updates chan []models.Message
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewScreenSynchronizer(
	selfID uint,
	peerID uint,
	ensure *GetOrCreateConversation,
	sender *SendMessage,
	msgs domain.MessageStore,
	profiles domain.ProfileStore,
	broker *realtime.Broker,
) *ScreenSynchronizer {
	return &ScreenSynchronizer{
		selfID:   selfID,
		peerID:   peerID,
		ensure:   ensure,
		sender:   sender,
		msgs:     msgs,
		profiles: profiles,
		broker:   broker,
		state:    StateIdle,
		seen:     map[string]struct{}{},
		updates:  make(chan []models.Message, 1),
		done:     make(chan struct{}),
	}
}

// Open transitions Idle -> Loading -> Live. The conversation topic is
// subscribed before the log is read, so an append racing the replay is
// caught by the tail and deduplicated.
func (s *ScreenSynchronizer) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return httperr.ErrValidation("already_open", "Chat screen is already open.")
	}
	s.state = StateLoading
	s.mu.Unlock()

	conv, err := s.ensure.Execute(ctx, s.selfID, s.peerID)
	if err != nil {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		return err
	}

	// partner display data is resolved once, not kept live
	partner, err := s.profiles.GetUser(ctx, s.peerID)
	if err != nil {
		partner = nil
	}

	sub := s.broker.Subscribe(realtime.ConversationTopic(conv.ID))

	history, err := s.msgs.ListMessages(ctx, conv.ID)
	if err != nil {
		sub.Cancel()
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		return httperr.ErrTransient("store_unavailable", "Could not load messages.")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Cancel()
		return nil
	}
	s.convID = conv.ID
	s.partner = partner
	s.sub = sub
	for _, m := range history {
		if _, dup := s.seen[m.ID]; dup {
			continue
		}
		s.seen[m.ID] = struct{}{}
		s.log = insertOrdered(s.log, m)
	}
	s.state = StateLive
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for ev := range sub.Events() {
			if ev.Type != realtime.EventMessageNew {
				continue
			}
			msg, ok := ev.Data.(*models.Message)
			if !ok {
				continue
			}
			s.append(*msg)
		}

		// channel closed by anything but our own Close means the
		// stream died: keep the log, surface the error, stay live
		s.mu.Lock()
		if !s.closed {
			s.lastErr = httperr.ErrTransient("stream_interrupted", "Live updates interrupted.")
		}
		s.mu.Unlock()
	}()

	s.publish()
	return nil
}

// Send validates and appends. The caller clears its input only when
// this returns nil.
func (s *ScreenSynchronizer) Send(ctx context.Context, text string) (*models.Message, error) {
	s.mu.Lock()
	convID := s.convID
	state := s.state
	s.mu.Unlock()

	if state != StateLive || convID == "" {
		return nil, httperr.ErrValidation("not_open", "Chat screen is not open.")
	}

	msg, err := s.sender.Execute(ctx, convID, s.selfID, text)
	if err != nil {
		return nil, err
	}

	// local echo; the broker event for the same id is deduplicated
	s.append(*msg)
	return msg, nil
}

func (s *ScreenSynchronizer) append(m models.Message) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if _, dup := s.seen[m.ID]; dup {
		s.mu.Unlock()
		return
	}
	s.seen[m.ID] = struct{}{}
	s.log = insertOrdered(s.log, m)
	s.mu.Unlock()

	s.publish()
}

func (s *ScreenSynchronizer) State() ScreenState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ScreenSynchronizer) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convID
}

func (s *ScreenSynchronizer) Partner() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partner
}

// Err reports the last stream error, if any. The message log stays
// usable regardless.
func (s *ScreenSynchronizer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Messages returns a copy of the current ordered log.
func (s *ScreenSynchronizer) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.log))
	copy(out, s.log)
	return out
}

// Updates emits the full ordered log after each append, latest-wins.
func (s *ScreenSynchronizer) Updates() <-chan []models.Message {
	return s.updates
}

func (s *ScreenSynchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.sub != nil {
		s.sub.Cancel()
	}
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
}

func (s *ScreenSynchronizer) publish() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	snap := make([]models.Message, len(s.log))
	copy(snap, s.log)
	s.mu.Unlock()

	for {
		select {
		case <-s.done:
			return
		case s.updates <- snap:
			return
		default:
			select {
			case <-s.updates:
			default:
			}
		}
	}
}

// insertOrdered keeps the log ascending by created_at with the message
// id as tiebreak, whatever order events arrive in.
func insertOrdered(log []models.Message, m models.Message) []models.Message {
	i := len(log)
	for i > 0 {
		prev := log[i-1]
		if prev.CreatedAt.Before(m.CreatedAt) ||
			(prev.CreatedAt.Equal(m.CreatedAt) && prev.ID <= m.ID) {
			break
		}
		i--
	}

	log = append(log, models.Message{})
	copy(log[i+1:], log[i:])
	log[i] = m
	return log
}
