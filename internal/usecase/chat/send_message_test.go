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

func seedConversation(store *fakeStore, a, b uint) *models.Conversation {
	conv := &models.Conversation{ID: "1_2", ParticipantA: a, ParticipantB: b, CreatedAt: time.Now()}
	_ = store.CreateConversation(context.Background(), conv)
	return conv
}

func TestSendMessage(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	seedConversation(store, 1, 2)

	convSub := broker.Subscribe(realtime.ConversationTopic("1_2"))
	userSub := broker.Subscribe(realtime.UserTopic(2))
	defer convSub.Cancel()
	defer userSub.Cancel()

	uc := ucChat.NewSendMessage(store, store, broker)

	msg, err := uc.Execute(context.Background(), "1_2", 1, "  hello there  ")
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "hello there", msg.Body)
	assert.Equal(t, uint(1), msg.SenderID)

	// stored before published
	stored, err := store.ListMessages(context.Background(), "1_2")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, msg.ID, stored[0].ID)

	for _, sub := range []*realtime.Subscription{convSub, userSub} {
		ev := <-sub.Events()
		assert.Equal(t, realtime.EventMessageNew, ev.Type)
		got, ok := ev.Data.(*models.Message)
		require.True(t, ok)
		assert.Equal(t, msg.ID, got.ID)
	}

	// sort key maintained
	conv, err := store.GetConversation(context.Background(), "1_2")
	require.NoError(t, err)
	require.NotNil(t, conv.LastMessageAt)
}

func TestSendMessage_Rejections(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	seedConversation(store, 1, 2)
	uc := ucChat.NewSendMessage(store, store, broker)

	tests := []struct {
		name     string
		convID   string
		senderID uint
		text     string
		code     string
	}{
		{name: "anonymous", convID: "1_2", senderID: 0, text: "hi", code: "auth_required"},
		{name: "blank text", convID: "1_2", senderID: 1, text: "   \n\t ", code: "empty_message"},
		{name: "unknown conversation", convID: "9_9", senderID: 1, text: "hi", code: "conversation_not_found"},
		{name: "outsider", convID: "1_2", senderID: 3, text: "hi", code: "conversation_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.convID, tt.senderID, tt.text)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}

	msgs, _ := store.ListMessages(context.Background(), "1_2")
	assert.Empty(t, msgs)
}
