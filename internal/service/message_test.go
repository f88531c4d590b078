package service

import (
	"context"
	"errors"
	"testing"

	"baradari/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeMessageStore keeps one chat and its messages in memory.
type fakeMessageStore struct {
	chats      map[primitive.ObjectID]*models.Chat
	messages   []models.Message
	insertErr  error
	previewErr error
}

func newFakeMessageStore(chat *models.Chat) *fakeMessageStore {
	return &fakeMessageStore{chats: map[primitive.ObjectID]*models.Chat{chat.ID: chat}}
}

func (f *fakeMessageStore) ChatForParticipant(_ context.Context, chatID, userID primitive.ObjectID) (*models.Chat, error) {
	chat, ok := f.chats[chatID]
	if !ok {
		return nil, ErrNotParticipant
	}
	for _, p := range chat.Participants {
		if p == userID {
			return chat, nil
		}
	}
	return nil, ErrNotParticipant
}

func (f *fakeMessageStore) Insert(_ context.Context, msg models.Message) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeMessageStore) SetLastMessage(_ context.Context, chatID primitive.ObjectID, text string, at int64) error {
	if f.previewErr != nil {
		return f.previewErr
	}
	if chat, ok := f.chats[chatID]; ok {
		chat.LastMessage = text
		chat.LastMessageAt = at
	}
	return nil
}

func pairChat() (*models.Chat, primitive.ObjectID, primitive.ObjectID) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	chat := &models.Chat{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{a, b},
		PairKey:      PairKey(a, b),
	}
	return chat, a, b
}

func TestSendAppendsExactlyOneMessage(t *testing.T) {
	chat, sender, _ := pairChat()
	store := newFakeMessageStore(chat)
	svc := NewMessageService(store)

	msg, got, err := svc.Send(context.Background(), chat.ID, sender, "hello")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, chat.ID, got.ID)

	require.Len(t, store.messages, 1)
	stored := store.messages[0]
	assert.Equal(t, msg.ID, stored.ID)
	assert.Equal(t, chat.ID, stored.ChatID)
	assert.Equal(t, sender, stored.SenderID)
	assert.Equal(t, "hello", stored.Text)
	assert.Equal(t, ObfuscateText("hello"), stored.EncryptedText)
	assert.False(t, stored.Seen)

	assert.Equal(t, "hello", chat.LastMessage)
	assert.Equal(t, stored.CreatedAt, chat.LastMessageAt)
}

func TestSendRefreshesPreviewEachTime(t *testing.T) {
	chat, a, b := pairChat()
	store := newFakeMessageStore(chat)
	svc := NewMessageService(store)

	_, _, err := svc.Send(context.Background(), chat.ID, a, "first")
	require.NoError(t, err)
	_, _, err = svc.Send(context.Background(), chat.ID, b, "second")
	require.NoError(t, err)

	assert.Len(t, store.messages, 2)
	assert.Equal(t, "second", chat.LastMessage)
}

func TestSendRejectsOutsiders(t *testing.T) {
	chat, _, _ := pairChat()
	store := newFakeMessageStore(chat)
	svc := NewMessageService(store)

	tests := []struct {
		name   string
		chatID primitive.ObjectID
		sender primitive.ObjectID
	}{
		{"stranger", chat.ID, primitive.NewObjectID()},
		{"unknown chat", primitive.NewObjectID(), chat.Participants[0]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Send(context.Background(), tt.chatID, tt.sender, "hi")
			assert.ErrorIs(t, err, ErrNotParticipant)
			assert.Empty(t, store.messages)
			assert.Equal(t, "", chat.LastMessage)
		})
	}
}

func TestSendPropagatesInsertError(t *testing.T) {
	chat, sender, _ := pairChat()
	store := newFakeMessageStore(chat)
	store.insertErr = errors.New("connection reset")
	svc := NewMessageService(store)

	_, _, err := svc.Send(context.Background(), chat.ID, sender, "hello")
	assert.ErrorIs(t, err, store.insertErr)
	assert.Empty(t, store.messages)
	assert.Equal(t, "", chat.LastMessage)
}

func TestSendKeepsMessageWhenPreviewUpdateFails(t *testing.T) {
	chat, sender, _ := pairChat()
	store := newFakeMessageStore(chat)
	store.previewErr = errors.New("write concern timeout")
	svc := NewMessageService(store)

	msg, _, err := svc.Send(context.Background(), chat.ID, sender, "hello")
	require.NoError(t, err)

	// The message made it in; only the chat list preview is stale.
	require.Len(t, store.messages, 1)
	assert.Equal(t, msg.ID, store.messages[0].ID)
	assert.Equal(t, "", chat.LastMessage)
}
