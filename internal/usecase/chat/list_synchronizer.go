package chat

import (
	"context"
	"sort"
	"sync"

	domain "github.com/workhive/workhive-api/internal/domain/chat"
	"github.com/workhive/workhive-api/internal/models"
	"github.com/workhive/workhive-api/internal/realtime"
)

// ======================================================
// CONVERSATION LIST SYNCHRONIZER
// ======================================================

type ListEntry struct {
	ConversationID string          `json:"conversation_id"`
	Partner        *models.User    `json:"partner"`
	LastMessage    *models.Message `json:"last_message"`
}

type trackedConversation struct {
	conv    models.Conversation
	partner *models.User // nil when the user record no longer resolves
	last    *models.Message
	sub     *realtime.Subscription
}

// ListSynchronizer keeps a live, ordered conversation list for one user:
// most recent message first, conversations without messages last. It
// holds exactly one subscription per tracked conversation plus one on
// the user's own topic for directory changes; Close tears all of them
// down and no update is published afterwards.
type ListSynchronizer struct {
	userID   uint
	dir      domain.Directory
	msgs     domain.MessageStore
	profiles domain.ProfileStore
	broker   *realtime.Broker

	mu      sync.Mutex
	tracked map[string]*trackedConversation
	userSub *realtime.Subscription
	closed  bool

	updates chan []ListEntry
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewListSynchronizer(
	userID uint,
	dir domain.Directory,
	msgs domain.MessageStore,
	profiles domain.ProfileStore,
	broker *realtime.Broker,
) *ListSynchronizer {
	return &ListSynchronizer{
		userID:   userID,
		dir:      dir,
		msgs:     msgs,
		profiles: profiles,
		broker:   broker,
		tracked:  map[string]*trackedConversation{},
		updates:  make(chan []ListEntry, 1),
		done:     make(chan struct{}),
	}
}

// Start loads the current directory state and begins tailing changes.
// The user-topic subscription is opened before the initial read so a
// conversation created in between is not missed.
func (s *ListSynchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.userSub = s.broker.Subscribe(realtime.UserTopic(s.userID))
	sub := s.userSub
	s.mu.Unlock()

	if err := s.syncDirectory(ctx); err != nil {
		return err
	}
	s.publish()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for ev := range sub.Events() {
			if ev.Type != realtime.EventConversationCreated {
				continue
			}
			if err := s.syncDirectory(ctx); err != nil {
				continue
			}
			s.publish()
		}
	}()

	return nil
}

// Updates emits a fresh full snapshot after every relevant change.
// Latest-wins: a slow consumer sees the newest state, not every
// intermediate one.
func (s *ListSynchronizer) Updates() <-chan []ListEntry {
	return s.updates
}

// Snapshot returns the current ordered list.
func (s *ListSynchronizer) Snapshot() []ListEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close cancels the directory subscription and every per-conversation
// subscription, then waits for the tail goroutines to drain.
func (s *ListSynchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true

	if s.userSub != nil {
		s.userSub.Cancel()
	}
	for _, tc := range s.tracked {
		tc.sub.Cancel()
	}
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
}

// --------------------------------------------------
// Directory diffing
// --------------------------------------------------

func (s *ListSynchronizer) syncDirectory(ctx context.Context) error {
	convs, err := s.dir.ListConversationsForUser(ctx, s.userID)
	if err != nil {
		return err
	}

	current := make(map[string]models.Conversation, len(convs))
	for _, c := range convs {
		current[c.ID] = c
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	var added []models.Conversation
	for id, c := range current {
		if _, ok := s.tracked[id]; !ok {
			added = append(added, c)
		}
	}

	// teardown first: a conversation that left the directory must not
	// keep a live message subscription behind
	for id, tc := range s.tracked {
		if _, ok := current[id]; !ok {
			tc.sub.Cancel()
			delete(s.tracked, id)
		}
	}
	s.mu.Unlock()

	for _, c := range added {
		s.track(ctx, c)
	}
	return nil
}

// track resolves the partner profile once, seeds the latest message and
// opens the conversation subscription. Replacing an existing entry
// cancels the old subscription before the new one goes live.
func (s *ListSynchronizer) track(ctx context.Context, conv models.Conversation) {
	partnerID := domain.PartnerOf(s.userID, conv.ParticipantA, conv.ParticipantB)

	sub := s.broker.Subscribe(realtime.ConversationTopic(conv.ID))

	partner, err := s.profiles.GetUser(ctx, partnerID)
	if err != nil {
		partner = nil
	}

	last, err := s.msgs.LatestMessage(ctx, conv.ID)
	if err != nil {
		last = nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Cancel()
		return
	}
	if prev, ok := s.tracked[conv.ID]; ok {
		prev.sub.Cancel()
	}
	s.tracked[conv.ID] = &trackedConversation{
		conv:    conv,
		partner: partner,
		last:    last,
		sub:     sub,
	}
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

			s.mu.Lock()
			tc, tracked := s.tracked[conv.ID]
			if tracked {
				if tc.last == nil || !msg.CreatedAt.Before(tc.last.CreatedAt) {
					tc.last = msg
				}
			}
			s.mu.Unlock()

			if tracked {
				s.publish()
			}
		}
	}()
}

// --------------------------------------------------
// Snapshot + ordering
// --------------------------------------------------

func (s *ListSynchronizer) snapshotLocked() []ListEntry {
	entries := make([]ListEntry, 0, len(s.tracked))
	for _, tc := range s.tracked {
		// unresolvable partner: stays tracked, hidden from the list
		if tc.partner == nil {
			continue
		}
		entries = append(entries, ListEntry{
			ConversationID: tc.conv.ID,
			Partner:        tc.partner,
			LastMessage:    tc.last,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		li, lj := entries[i].LastMessage, entries[j].LastMessage
		switch {
		case li != nil && lj != nil:
			if !li.CreatedAt.Equal(lj.CreatedAt) {
				return li.CreatedAt.After(lj.CreatedAt)
			}
			return entries[i].ConversationID < entries[j].ConversationID
		case li != nil:
			return true
		case lj != nil:
			return false
		default:
			return entries[i].ConversationID < entries[j].ConversationID
		}
	})

	return entries
}

func (s *ListSynchronizer) publish() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	for {
		select {
		case <-s.done:
			return
		case s.updates <- snap:
			return
		default:
			// replace the stale pending snapshot
			select {
			case <-s.updates:
			default:
			}
		}
	}
}
