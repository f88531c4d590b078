package service

import (
	"context"

	"baradari/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoChatStore struct {
	coll *mongo.Collection
}

func NewMongoChatStore(coll *mongo.Collection) *MongoChatStore {
	return &MongoChatStore{coll: coll}
}

func (s *MongoChatStore) FindByParticipants(ctx context.Context, first, second primitive.ObjectID) (*models.Chat, error) {
	// Exact array equality: order matters, which is why the resolver asks
	// for both orderings.
	filter := bson.M{"participants": bson.A{first, second}}

	var chat models.Chat
	err := s.coll.FindOne(ctx, filter).Decode(&chat)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *MongoChatStore) GetOrCreate(ctx context.Context, pairKey string, candidate *models.Chat) (primitive.ObjectID, bool, error) {
	res, err := s.coll.UpdateOne(
		ctx,
		bson.M{"pairKey": pairKey},
		bson.M{"$setOnInsert": candidate},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return primitive.NilObjectID, false, err
	}

	if res.UpsertedID != nil {
		id, ok := res.UpsertedID.(primitive.ObjectID)
		if ok {
			return id, true, nil
		}
	}

	// Lost the race or the chat already existed: fetch the winner.
	var chat models.Chat
	if err := s.coll.FindOne(ctx, bson.M{"pairKey": pairKey}).Decode(&chat); err != nil {
		return primitive.NilObjectID, false, err
	}
	return chat.ID, false, nil
}
