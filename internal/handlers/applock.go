package handlers

import (
	"context"
	"net/http"

	"baradari/internal/database"
	"baradari/internal/models"
	"baradari/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetAppLock persists a new app-lock key and enables the lock. The
// client treats its session as unlocked right after, so the next gate
// run lands on the chat screen.
func SetAppLock(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required,min=4"`
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

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"appLockEnabled": true,
		"appLockKey":     service.ObfuscateKey(req.Key),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set app lock"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "app lock enabled", "unlocked": true})
}

// userLookupStatus maps a user FindOne failure onto its HTTP response.
// A token for a deleted account gets a 404, everything else is a 500.
func userLookupStatus(err error) (int, string) {
	if err == mongo.ErrNoDocuments {
		return http.StatusNotFound, "user not found"
	}
	return http.StatusInternalServerError, "database error"
}

// VerifyAppLock checks a key against the stored one. A match is the
// unlock event: the client flips its session flag and re-runs the gate.
func VerifyAppLock(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
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

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		status, msg := userLookupStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if !user.AppLockEnabled {
		c.JSON(http.StatusOK, gin.H{"unlocked": true})
		return
	}

	if !service.MatchKey(user.AppLockKey, req.Key) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect app lock key", "unlocked": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unlocked": true})
}

// DisableAppLock turns the lock off after verifying the current key.
func DisableAppLock(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
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

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		status, msg := userLookupStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if user.AppLockEnabled && !service.MatchKey(user.AppLockKey, req.Key) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect app lock key"})
		return
	}

	if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set":   bson.M{"appLockEnabled": false},
		"$unset": bson.M{"appLockKey": ""},
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to disable app lock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "app lock disabled"})
}
