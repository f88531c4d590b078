package service

import (
	"context"
	"strings"
	"time"

	"baradari/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatStore is the slice of chat storage the resolver needs. The Mongo
// implementation lives in chatstore_mongo.go; tests use an in-memory fake.
type ChatStore interface {
	// FindByParticipants returns the first chat whose ordered participants
	// array equals [first, second], or nil when none exists. Duplicate
	// documents from historic races are legal; callers take the first.
	FindByParticipants(ctx context.Context, first, second primitive.ObjectID) (*models.Chat, error)
	// GetOrCreate atomically returns the chat with the given pair key,
	// inserting the candidate document when none exists yet.
	GetOrCreate(ctx context.Context, pairKey string, candidate *models.Chat) (primitive.ObjectID, bool, error)
}

type ChatService struct {
	store ChatStore
	now   func() time.Time
}

func NewChatService(store ChatStore) *ChatService {
	return &ChatService{store: store, now: time.Now}
}

// PairKey builds the deterministic key for an unordered participant pair:
// the two ids in lexical order joined with a colon. Both orderings of the
// same pair always map to the same key.
func PairKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if strings.Compare(x, y) > 0 {
		x, y = y, x
	}
	return x + ":" + y
}

// Resolve finds the conversation between the two users or creates it.
//
// The lookup runs the two directional participant queries concurrently,
// so chats written before the pair key existed are still found
// regardless of participant order.
// On a miss the create goes through the pair-key upsert, which collapses
// concurrent first-contact races onto a single document.
func (s *ChatService) Resolve(ctx context.Context, selfID, otherID string) (primitive.ObjectID, bool, error) {
	if selfID == "" || otherID == "" {
		return primitive.NilObjectID, false, ErrInvalidParticipants
	}
	if selfID == otherID {
		return primitive.NilObjectID, false, ErrSelfChat
	}
	self, err := primitive.ObjectIDFromHex(selfID)
	if err != nil {
		return primitive.NilObjectID, false, ErrInvalidParticipants
	}
	other, err := primitive.ObjectIDFromHex(otherID)
	if err != nil {
		return primitive.NilObjectID, false, ErrInvalidParticipants
	}

	type lookup struct {
		chat *models.Chat
		err  error
	}
	forward := make(chan lookup, 1)
	reverse := make(chan lookup, 1)

	go func() {
		c, err := s.store.FindByParticipants(ctx, self, other)
		forward <- lookup{c, err}
	}()
	go func() {
		c, err := s.store.FindByParticipants(ctx, other, self)
		reverse <- lookup{c, err}
	}()

	fwd, rev := <-forward, <-reverse
	if fwd.err != nil {
		return primitive.NilObjectID, false, fwd.err
	}
	if rev.err != nil {
		return primitive.NilObjectID, false, rev.err
	}
	if fwd.chat != nil {
		return fwd.chat.ID, false, nil
	}
	if rev.chat != nil {
		return rev.chat.ID, false, nil
	}

	candidate := &models.Chat{
		ID:            primitive.NewObjectID(),
		Participants:  []primitive.ObjectID{self, other},
		PairKey:       PairKey(self, other),
		LastMessage:   "",
		LastMessageAt: s.now().Unix(),
		IsBroadcast:   false,
		CreatedAt:     s.now().Unix(),
	}
	return s.store.GetOrCreate(ctx, candidate.PairKey, candidate)
}
