package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var Users *mongo.Collection
var Chats *mongo.Collection
var Messages *mongo.Collection
var Subscriptions *mongo.Collection

func Connect(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	if err := Client.Ping(ctx, nil); err != nil {
		return err
	}

	db := Client.Database(dbName)
	Users = db.Collection("users")
	Chats = db.Collection("chats")
	Messages = db.Collection("messages")
	Subscriptions = db.Collection("subscriptions")

	log.Info().Str("database", dbName).Msg("connected to MongoDB")
	return nil
}

// EnsureIndexes creates the indexes the service relies on. The unique
// pairKey index is what guarantees at most one chat per unordered pair.
func EnsureIndexes(ctx context.Context) error {
	_, err := Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = Chats.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pairKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "participants", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = Messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "chatId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = Subscriptions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func Disconnect() error {
	if Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Info().Msg("disconnected from MongoDB")
	return nil
}
