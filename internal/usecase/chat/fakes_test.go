package chat_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/workhive/workhive-api/internal/models"
)

// fakeStore is an in-memory Directory + MessageStore + ProfileStore.
// It mirrors the real store's contract: lookups return (nil, nil) when
// the record does not exist, and conversation creation is a no-op on
// conflict.
type fakeStore struct {
	mu    sync.Mutex
	convs map[string]*models.Conversation
	msgs  map[string][]models.Message
	users map[uint]*models.User
	seq   int
	fail  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		convs: map[string]*models.Conversation{},
		msgs:  map[string][]models.Message{},
		users: map[uint]*models.User{},
	}
}

func (s *fakeStore) addUser(id uint, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = &models.User{ID: id, Username: username}
}

func (s *fakeStore) GetConversation(_ context.Context, id string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store down")
	}
	c, ok := s.convs[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) CreateConversation(_ context.Context, conv *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("store down")
	}
	if _, exists := s.convs[conv.ID]; exists {
		return nil
	}
	cp := *conv
	s.convs[conv.ID] = &cp
	return nil
}

func (s *fakeStore) ListConversationsForUser(_ context.Context, userID uint) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store down")
	}
	var out []models.Conversation
	for _, c := range s.convs {
		if c.ParticipantA == userID || c.ParticipantB == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeStore) AppendMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("store down")
	}
	if msg.ID == "" {
		s.seq++
		msg.ID = fmt.Sprintf("msg-%04d", s.seq)
	}
	s.msgs[msg.ConversationID] = append(s.msgs[msg.ConversationID], *msg)
	return nil
}

func (s *fakeStore) ListMessages(_ context.Context, conversationID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store down")
	}
	out := make([]models.Message, len(s.msgs[conversationID]))
	copy(out, s.msgs[conversationID])
	return out, nil
}

func (s *fakeStore) LatestMessage(_ context.Context, conversationID string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.msgs[conversationID]
	if len(log) == 0 {
		return nil, nil
	}
	latest := log[0]
	for _, m := range log[1:] {
		if m.CreatedAt.After(latest.CreatedAt) {
			latest = m
		}
	}
	return &latest, nil
}

func (s *fakeStore) TouchConversation(_ context.Context, conversationID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.convs[conversationID]; ok {
		t := at
		c.LastMessageAt = &t
	}
	return nil
}

func (s *fakeStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
