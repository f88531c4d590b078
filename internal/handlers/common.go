package handlers

import (
	"net/http"
	"time"

	"baradari/internal/config"
	"baradari/internal/database"
	"baradari/internal/service"
	"baradari/internal/ws"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const fallbackAvatar = "https://upload.wikimedia.org/wikipedia/commons/8/89/Portrait_Placeholder.png"

const requestTimeout = 10 * time.Second

var (
	cfg      config.Config
	hub      *ws.Hub
	chatSvc  *service.ChatService
	msgStore service.MessageStore
	msgSvc   *service.MessageService
)

// Setup wires the handler package with its collaborators. Must be called
// once at boot, after the database is connected.
func Setup(c config.Config, h *ws.Hub) {
	cfg = c
	hub = h
	chatSvc = service.NewChatService(service.NewMongoChatStore(database.Chats))
	msgStore = service.NewMongoMessageStore(database.Chats, database.Messages)
	msgSvc = service.NewMessageService(msgStore)
}

// currentUserID extracts the authenticated caller's id set by the JWT
// middleware. On failure it writes the 401 itself and reports false.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}
