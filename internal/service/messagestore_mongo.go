package service

import (
	"context"

	"baradari/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoMessageStore struct {
	chats    *mongo.Collection
	messages *mongo.Collection
}

func NewMongoMessageStore(chats, messages *mongo.Collection) *MongoMessageStore {
	return &MongoMessageStore{chats: chats, messages: messages}
}

func (s *MongoMessageStore) ChatForParticipant(ctx context.Context, chatID, userID primitive.ObjectID) (*models.Chat, error) {
	var chat models.Chat
	err := s.chats.FindOne(ctx, bson.M{"_id": chatID, "participants": userID}).Decode(&chat)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotParticipant
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *MongoMessageStore) Insert(ctx context.Context, msg models.Message) error {
	_, err := s.messages.InsertOne(ctx, msg)
	return err
}

func (s *MongoMessageStore) SetLastMessage(ctx context.Context, chatID primitive.ObjectID, text string, at int64) error {
	_, err := s.chats.UpdateOne(ctx, bson.M{"_id": chatID}, bson.M{"$set": bson.M{
		"lastMessage":   text,
		"lastMessageAt": at,
	}})
	return err
}
