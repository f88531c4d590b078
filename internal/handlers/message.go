package handlers

import (
	"context"
	"errors"
	"net/http"

	"baradari/internal/database"
	"baradari/internal/metrics"
	"baradari/internal/models"
	"baradari/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// chatForParticipant loads the chat and verifies membership.
func chatForParticipant(ctx context.Context, chatID, userID primitive.ObjectID) (*models.Chat, int, string) {
	chat, err := msgStore.ChatForParticipant(ctx, chatID, userID)
	if errors.Is(err, service.ErrNotParticipant) {
		return nil, http.StatusForbidden, "access denied to chat"
	}
	if err != nil {
		return nil, http.StatusInternalServerError, "failed to verify chat access"
	}
	return chat, 0, ""
}

func SendMessage(c *gin.Context) {
	var req struct {
		ChatID string `json:"chatId" binding:"required"`
		Text   string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	chatID, err := primitive.ObjectIDFromHex(req.ChatID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	message, chat, err := msgSvc.Send(ctx, chatID, userID, req.Text)
	if errors.Is(err, service.ErrNotParticipant) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied to chat"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("chat_id", chatID.Hex()).Msg("insert message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	metrics.MessagesSentTotal.Inc()

	recipients := make([]string, 0, 1)
	for _, p := range chat.Participants {
		if p != userID {
			recipients = append(recipients, p.Hex())
		}
	}

	if hub != nil {
		hub.Notify(recipients, "new_message", gin.H{
			"id":        message.ID.Hex(),
			"chatId":    chatID.Hex(),
			"senderId":  userID.Hex(),
			"text":      message.Text,
			"createdAt": message.CreatedAt,
		})
	}

	for _, p := range chat.Participants {
		if p != userID {
			notifyNewMessage(userID, p, req.Text)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"id": message.ID.Hex()})
}

// GetMessages returns a chat's messages oldest-first.
func GetMessages(c *gin.Context) {
	chatID, err := primitive.ObjectIDFromHex(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if _, status, msg := chatForParticipant(ctx, chatID, userID); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := database.Messages.Find(ctx, bson.M{"chatId": chatID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch messages"})
		return
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// MarkSeen flags every unseen partner message in the chat as seen.
func MarkSeen(c *gin.Context) {
	chatID, err := primitive.ObjectIDFromHex(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	chat, status, msg := chatForParticipant(ctx, chatID, userID)
	if status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	result, err := database.Messages.UpdateMany(ctx, bson.M{
		"chatId":   chatID,
		"senderId": bson.M{"$ne": userID},
		"seen":     false,
	}, bson.M{"$set": bson.M{"seen": true}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark seen"})
		return
	}

	if hub != nil && result.ModifiedCount > 0 {
		recipients := make([]string, 0, 1)
		for _, p := range chat.Participants {
			if p != userID {
				recipients = append(recipients, p.Hex())
			}
		}
		hub.Notify(recipients, "messages_seen", gin.H{
			"chatId": chatID.Hex(),
			"byId":   userID.Hex(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"updatedCount": result.ModifiedCount})
}
