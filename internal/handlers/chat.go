package handlers

import (
	"context"
	"errors"
	"net/http"

	"baradari/internal/database"
	"baradari/internal/metrics"
	"baradari/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ResolveChat finds or creates the conversation between the caller and
// one other user and returns its id.
func ResolveChat(c *gin.Context) {
	var req struct {
		OtherID string `json:"otherId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selfID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	chatID, created, err := chatSvc.Resolve(ctx, selfID, req.OtherID)
	switch {
	case errors.Is(err, service.ErrInvalidParticipants), errors.Is(err, service.ErrSelfChat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Error().Err(err).Str("self", selfID).Str("other", req.OtherID).Msg("resolve chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve chat"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		metrics.ChatsCreatedTotal.Inc()
		if hub != nil {
			hub.Notify([]string{req.OtherID}, "chat_created", gin.H{
				"id":     chatID.Hex(),
				"withId": selfID,
			})
		}
	}

	c.JSON(status, gin.H{"id": chatID.Hex(), "created": created})
}

// GetChatList returns the caller's chats newest-first, each with the
// partner's profile joined in.
func GetChatList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "participants", Value: userID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastMessageAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "participants"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "participantProfiles"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "partner", Value: bson.D{
				{Key: "$arrayElemAt", Value: bson.A{
					bson.D{{Key: "$filter", Value: bson.D{
						{Key: "input", Value: "$participantProfiles"},
						{Key: "as", Value: "p"},
						{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$p._id", userID}}}},
					}}},
					0,
				}},
			}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "lastMessage", Value: 1},
			{Key: "lastMessageAt", Value: 1},
			{Key: "isBroadcast", Value: 1},
			{Key: "partner._id", Value: 1},
			{Key: "partner.nickname", Value: 1},
			{Key: "partner.username", Value: 1},
			{Key: "partner.avatar", Value: 1},
			{Key: "partner.status", Value: 1},
		}}},
	}

	cursor, err := database.Chats.Aggregate(ctx, pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch chats"})
		return
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode chats"})
		return
	}

	response := make([]gin.H, 0, len(results))
	for _, r := range results {
		response = append(response, gin.H{
			"id":            objectIDHex(r["_id"]),
			"lastMessage":   r["lastMessage"],
			"lastMessageAt": r["lastMessageAt"],
			"partner":       partnerView(r["partner"]),
		})
	}

	c.JSON(http.StatusOK, response)
}

func GetChat(c *gin.Context) {
	chatID, err := primitive.ObjectIDFromHex(c.Param("id"))
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

	var chat bson.M
	err = database.Chats.FindOne(ctx, bson.M{"_id": chatID, "participants": userID}).Decode(&chat)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found or access denied"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            chatID.Hex(),
		"lastMessage":   chat["lastMessage"],
		"lastMessageAt": chat["lastMessageAt"],
		"participants":  chat["participants"],
	})
}

// partnerView shapes the joined partner document with fallbacks so the
// client never sees a null partner, even if the other account vanished.
func partnerView(raw interface{}) gin.H {
	view := gin.H{
		"id":       "",
		"nickname": "Unknown",
		"username": "unknown",
		"avatar":   fallbackAvatar,
		"status":   "offline",
	}

	p, ok := raw.(bson.M)
	if !ok || p == nil {
		return view
	}

	if id, _ := p["_id"].(primitive.ObjectID); id != primitive.NilObjectID {
		view["id"] = id.Hex()
	}
	if nickname, _ := p["nickname"].(string); nickname != "" {
		view["nickname"] = nickname
	}
	if username, _ := p["username"].(string); username != "" {
		view["username"] = username
	}
	if avatar, _ := p["avatar"].(string); avatar != "" {
		view["avatar"] = avatar
	}
	if status, _ := p["status"].(string); status != "" {
		view["status"] = status
	}
	return view
}

func objectIDHex(raw interface{}) string {
	if id, ok := raw.(primitive.ObjectID); ok {
		return id.Hex()
	}
	return ""
}
