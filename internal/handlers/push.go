package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"baradari/internal/database"
	"baradari/internal/models"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureVAPIDKeys generates a key pair when none is configured. Meant
// for development; production deployments set the env variables.
func EnsureVAPIDKeys() {
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		return
	}
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		log.Error().Err(err).Msg("generate VAPID keys")
		return
	}
	cfg.VAPIDPublicKey = publicKey
	cfg.VAPIDPrivateKey = privateKey
	log.Warn().Msg("generated ephemeral VAPID keys; set VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY for production")
}

func GetVAPIDPublicKey(c *gin.Context) {
	if cfg.VAPIDPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": cfg.VAPIDPublicKey})
}

// SubscribePush upserts the caller's web push subscription.
func SubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	sub := models.PushSubscription{
		UserID: userID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
	}

	_, err := database.Subscriptions.UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"userId": sub.UserID, "sub": sub.Sub}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("save push subscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subscription saved"})
}

func Unsubscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if _, err := database.Subscriptions.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subscription removed"})
}

// preview shortens message text for a notification body. Cuts on a rune
// boundary so multi-byte characters never arrive mangled.
func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// notifyNewMessage pushes a new-message notification to the recipient in
// the background. Best-effort: failures are logged, never surfaced.
func notifyNewMessage(senderID, recipientID primitive.ObjectID, text string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("push notification panic")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var sender models.User
		if err := database.Users.FindOne(ctx, bson.M{"_id": senderID}).Decode(&sender); err != nil {
			return
		}
		name := sender.Nickname
		if name == "" {
			name = "Someone"
		}

		sendPush(ctx, recipientID, name+" sent a message", preview(text, 100), sender.Avatar)
	}()
}

func sendPush(ctx context.Context, userID primitive.ObjectID, title, body, icon string) {
	if cfg.VAPIDPrivateKey == "" {
		return
	}

	var sub models.PushSubscription
	err := database.Subscriptions.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.Hex()).Msg("load push subscription")
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"title": title,
		"body":  body,
		"icon":  icon,
		"data": map[string]interface{}{
			"url":       "/chat",
			"timestamp": time.Now().Unix(),
		},
	})
	if err != nil {
		return
	}

	resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
		Subscriber:      cfg.VAPIDSubscriber,
		VAPIDPublicKey:  cfg.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		TTL:             30,
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.Hex()).Msg("send push")
		// Expired subscriptions get cleaned up so we stop retrying them.
		if resp != nil && resp.StatusCode == http.StatusGone {
			if _, delErr := database.Subscriptions.DeleteOne(ctx, bson.M{"userId": userID}); delErr != nil {
				log.Warn().Err(delErr).Msg("delete expired subscription")
			}
		}
		return
	}
	resp.Body.Close()
}
