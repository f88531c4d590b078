package service

import (
	"context"
	"time"

	"baradari/internal/models"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageStore is the slice of message storage the send path needs. The
// Mongo implementation lives in messagestore_mongo.go; tests use an
// in-memory fake.
type MessageStore interface {
	// ChatForParticipant returns the chat when the user is one of its
	// participants, or ErrNotParticipant otherwise.
	ChatForParticipant(ctx context.Context, chatID, userID primitive.ObjectID) (*models.Chat, error)
	Insert(ctx context.Context, msg models.Message) error
	// SetLastMessage refreshes the denormalized preview on the parent chat.
	SetLastMessage(ctx context.Context, chatID primitive.ObjectID, text string, at int64) error
}

type MessageService struct {
	store MessageStore
	now   func() time.Time
}

func NewMessageService(store MessageStore) *MessageService {
	return &MessageService{store: store, now: time.Now}
}

// Send appends one message to the chat and updates the chat's
// lastMessage/lastMessageAt preview. The sender must be a participant.
// The message is the source of truth: once it is stored, a preview
// update failure only degrades the chat list and is not surfaced.
func (s *MessageService) Send(ctx context.Context, chatID, senderID primitive.ObjectID, text string) (models.Message, *models.Chat, error) {
	chat, err := s.store.ChatForParticipant(ctx, chatID, senderID)
	if err != nil {
		return models.Message{}, nil, err
	}

	msg := models.Message{
		ID:            primitive.NewObjectID(),
		ChatID:        chatID,
		SenderID:      senderID,
		Text:          text,
		EncryptedText: ObfuscateText(text),
		Seen:          false,
		CreatedAt:     s.now().Unix(),
	}

	if err := s.store.Insert(ctx, msg); err != nil {
		return models.Message{}, nil, err
	}

	if err := s.store.SetLastMessage(ctx, chatID, text, msg.CreatedAt); err != nil {
		log.Warn().Err(err).Str("chat_id", chatID.Hex()).Msg("update chat last message")
	}

	return msg, chat, nil
}
