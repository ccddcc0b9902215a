package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/models"
	"github.com/workhive/workhive-api/internal/realtime"
	ucChat "github.com/workhive/workhive-api/internal/usecase/chat"
)

func newScreenSync(store *fakeStore, broker *realtime.Broker, selfID, peerID uint) *ucChat.ScreenSynchronizer {
	return ucChat.NewScreenSynchronizer(
		selfID,
		peerID,
		ucChat.NewGetOrCreateConversation(store, broker),
		ucChat.NewSendMessage(store, store, broker),
		store,
		store,
		broker,
	)
}

func messageBodies(msgs []models.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Body
	}
	return out
}

func TestScreenSynchronizer_OpenReplaysHistory(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	store.addUser(1, "alice")
	store.addUser(2, "bob")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateConversation(context.Background(), &models.Conversation{ID: "1_2", ParticipantA: 1, ParticipantB: 2}))
	for i, body := range []string{"first", "second", "third"} {
		require.NoError(t, store.AppendMessage(context.Background(), &models.Message{
			ConversationID: "1_2", SenderID: 2, Body: body, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	s := newScreenSync(store, broker, 1, 2)
	defer s.Close()

	require.Equal(t, ucChat.StateIdle, s.State())
	require.NoError(t, s.Open(context.Background()))

	assert.Equal(t, ucChat.StateLive, s.State())
	assert.Equal(t, "1_2", s.ConversationID())
	require.NotNil(t, s.Partner())
	assert.Equal(t, "bob", s.Partner().Username)
	assert.Equal(t, []string{"first", "second", "third"}, messageBodies(s.Messages()))
}

func TestScreenSynchronizer_OpenCreatesMissingConversation(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	store.addUser(1, "alice")
	store.addUser(2, "bob")

	s := newScreenSync(store, broker, 2, 1)
	defer s.Close()

	require.NoError(t, s.Open(context.Background()))
	assert.Equal(t, "1_2", s.ConversationID())

	conv, err := store.GetConversation(context.Background(), "1_2")
	require.NoError(t, err)
	require.NotNil(t, conv)
}

func TestScreenSynchronizer_OpenTwiceFails(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	store.addUser(1, "alice")
	store.addUser(2, "bob")

	s := newScreenSync(store, broker, 1, 2)
	defer s.Close()

	require.NoError(t, s.Open(context.Background()))
	err := s.Open(context.Background())
	assert.True(t, httperr.IsBusiness(err, "already_open"))
}

func TestScreenSynchronizer_OrdersOutOfOrderArrivals(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	store.addUser(1, "alice")
	store.addUser(2, "bob")

	s := newScreenSync(store, broker, 1, 2)
	defer s.Close()
	require.NoError(t, s.Open(context.Background()))

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t1 := models.Message{ID: "m-1", ConversationID: "1_2", SenderID: 2, Body: "one", CreatedAt: base}
	t2 := models.Message{ID: "m-2", ConversationID: "1_2", SenderID: 1, Body: "two", CreatedAt: base.Add(time.Minute)}
	t3 := models.Message{ID: "m-3", ConversationID: "1_2", SenderID: 2, Body: "three", CreatedAt: base.Add(2 * time.Minute)}

	// deliver middle, last, first
	for _, m := range []models.Message{t2, t3, t1} {
		msg := m
		broker.Publish(realtime.ConversationTopic("1_2"), realtime.Event{
			Type: realtime.EventMessageNew,
			Data: &msg,
		})
	}

	require.Eventually(t, func() bool {
		return len(s.Messages()) == 3
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"one", "two", "three"}, messageBodies(s.Messages()))
}

func TestScreenSynchronizer_SendEchoIsDeduplicated(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	store.addUser(1, "alice")
	store.addUser(2, "bob")

	s := newScreenSync(store, broker, 1, 2)
	defer s.Close()
	require.NoError(t, s.Open(context.Background()))

	msg, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Body)

	// the local echo and the broker event carry the same id; give the
	// tail a moment to deliver the duplicate before asserting
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"hello"}, messageBodies(s.Messages()))
}

func TestScreenSynchronizer_SendValidation(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	store.addUser(1, "alice")
	store.addUser(2, "bob")

	s := newScreenSync(store, broker, 1, 2)
	defer s.Close()

	// not open yet
	_, err := s.Send(context.Background(), "hi")
	assert.True(t, httperr.IsBusiness(err, "not_open"))

	require.NoError(t, s.Open(context.Background()))

	_, err = s.Send(context.Background(), "   ")
	assert.True(t, httperr.IsBusiness(err, "empty_message"))
	assert.Empty(t, s.Messages())
	assert.Equal(t, ucChat.StateLive, s.State())
}

func TestScreenSynchronizer_CloseTearsDownSubscription(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	store.addUser(1, "alice")
	store.addUser(2, "bob")

	s := newScreenSync(store, broker, 1, 2)
	require.NoError(t, s.Open(context.Background()))
	require.Equal(t, 1, broker.Subscribers(realtime.ConversationTopic("1_2")))

	s.Close()
	assert.Zero(t, broker.Subscribers(realtime.ConversationTopic("1_2")))

	// a clean close is not a stream error
	assert.NoError(t, s.Err())

	// closing twice is safe
	s.Close()
}
