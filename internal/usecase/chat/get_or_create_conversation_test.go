package chat_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/realtime"
	ucChat "github.com/workhive/workhive-api/internal/usecase/chat"
)

func TestGetOrCreateConversation(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	uc := ucChat.NewGetOrCreateConversation(store, broker)

	conv, err := uc.Execute(context.Background(), 2, 1)
	require.NoError(t, err)

	assert.Equal(t, "1_2", conv.ID)
	assert.Equal(t, uint(1), conv.ParticipantA)
	assert.Equal(t, uint(2), conv.ParticipantB)

	// the reverse pair resolves to the same row
	again, err := uc.Execute(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)
}

func TestGetOrCreateConversation_NotifiesBothParticipants(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	uc := ucChat.NewGetOrCreateConversation(store, broker)

	subA := broker.Subscribe(realtime.UserTopic(1))
	subB := broker.Subscribe(realtime.UserTopic(2))
	defer subA.Cancel()
	defer subB.Cancel()

	_, err := uc.Execute(context.Background(), 1, 2)
	require.NoError(t, err)

	for _, sub := range []*realtime.Subscription{subA, subB} {
		ev := <-sub.Events()
		assert.Equal(t, realtime.EventConversationCreated, ev.Type)
	}
}

func TestGetOrCreateConversation_ConcurrentCallsConverge(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	uc := ucChat.NewGetOrCreateConversation(store, broker)

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := uint(1), uint(2)
			if i%2 == 0 {
				a, b = b, a
			}
			conv, err := uc.Execute(context.Background(), a, b)
			if err == nil {
				ids[i] = conv.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, "1_2", id)
	}

	convs, err := store.ListConversationsForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}

func TestGetOrCreateConversation_Rejections(t *testing.T) {
	store := newFakeStore()
	broker := realtime.NewBroker()
	uc := ucChat.NewGetOrCreateConversation(store, broker)

	_, err := uc.Execute(context.Background(), 0, 2)
	assert.True(t, httperr.IsKind(err, httperr.KindAuthRequired))

	_, err = uc.Execute(context.Background(), 3, 3)
	assert.True(t, httperr.IsBusiness(err, "self_conversation"))
}

func TestGetOrCreateConversation_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.fail = true
	uc := ucChat.NewGetOrCreateConversation(store, realtime.NewBroker())

	_, err := uc.Execute(context.Background(), 1, 2)
	assert.True(t, httperr.IsKind(err, httperr.KindTransient))
}
