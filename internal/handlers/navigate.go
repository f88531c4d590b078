package handlers

import (
	"context"
	"net/http"
	"strings"

	"baradari/internal/database"
	"baradari/internal/middleware"
	"baradari/internal/models"
	"baradari/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type NavigateRequest struct {
	// AppUnlocked is the session-scoped unlock flag held by the client.
	// It is an explicit input here, never server state.
	AppUnlocked bool `json:"appUnlocked"`
}

// Navigate runs the navigation gate for the caller and returns the one
// screen they belong on. The route is public: an absent or bad token is
// the signed-out state, not an error.
func Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.GateInput{
		Auth:            service.AuthSignedOut,
		Profile:         service.ProfileUnknown,
		SessionUnlocked: req.AppUnlocked,
	}

	userID, signedIn := bearerUserID(c)
	if signedIn {
		in.Auth = service.AuthSignedIn

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var user models.User
		err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		switch {
		case err == mongo.ErrNoDocuments:
			in.Profile = service.ProfileMissing
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		case !user.HasProfile():
			in.Profile = service.ProfileMissing
		default:
			in.Profile = service.ProfileLoaded
			in.AppLockEnabled = user.AppLockEnabled
		}
	}

	c.JSON(http.StatusOK, gin.H{"screen": service.Decide(in)})
}

// bearerUserID parses an optional bearer token without failing the
// request. Query token fallback matches the auth middleware.
func bearerUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw := c.GetHeader("Authorization")
	if raw == "" {
		raw = c.Query("token")
		if raw == "" {
			return primitive.NilObjectID, false
		}
	} else {
		parts := strings.Split(raw, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return primitive.NilObjectID, false
		}
		raw = parts[1]
	}

	claims, err := middleware.ParseToken(raw, cfg.JWTSecret)
	if err != nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
