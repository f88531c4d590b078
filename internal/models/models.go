package models

import (
	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a single document in the users collection. The auth record and
// the chat profile live together: signup creates the document with only
// credentials, and the profile counts as missing until the user picks a
// nickname and username.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Nickname     string             `bson:"nickname" json:"nickname"`
	Username     string             `bson:"username" json:"username"`
	Avatar       string             `bson:"avatar" json:"avatar"`
	Bio          string             `bson:"bio" json:"bio"`
	Status       string             `bson:"status" json:"status"` // online, offline
	LastSeen     int64              `bson:"lastSeen" json:"lastSeen"`

	// App lock: a client-local secondary key gating the chat UI. The key is
	// stored base64-obfuscated, not hashed, matching the shipped behavior.
	AppLockEnabled bool   `bson:"appLockEnabled" json:"appLockEnabled"`
	AppLockKey     string `bson:"appLockKey,omitempty" json:"-"`

	FCMToken  string `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt int64  `bson:"createdAt" json:"createdAt"`
}

// HasProfile reports whether the user finished profile creation.
func (u *User) HasProfile() bool {
	return u.Nickname != "" && u.Username != ""
}

// Chat pairs exactly two participants. PairKey is the sorted join of the
// two participant ids and is unique per unordered pair, which is what
// makes get-or-create atomic.
type Chat struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Participants  []primitive.ObjectID `bson:"participants" json:"participants"`
	PairKey       string               `bson:"pairKey" json:"-"`
	LastMessage   string               `bson:"lastMessage" json:"lastMessage"`
	LastMessageAt int64                `bson:"lastMessageAt" json:"lastMessageAt"`
	IsBroadcast   bool                 `bson:"isBroadcast" json:"isBroadcast"`
	CreatedAt     int64                `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Message is immutable once created. EncryptedText is a reversible
// base64 encoding of Text that the web client stores alongside the
// plaintext; it is not real encryption.
type Message struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID        primitive.ObjectID `bson:"chatId" json:"chatId"`
	SenderID      primitive.ObjectID `bson:"senderId" json:"senderId"`
	Text          string             `bson:"text" json:"text"`
	EncryptedText string             `bson:"encryptedText" json:"encryptedText"`
	Seen          bool               `bson:"seen" json:"seen"`
	CreatedAt     int64              `bson:"createdAt" json:"createdAt"`
}

// PushSubscription stores one web push subscription per user.
type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID   `bson:"userId" json:"userId"`
	Sub    webpush.Subscription `bson:"sub" json:"sub"`
}
