package handlers

import (
	"context"
	"net/http"
	"time"

	"baradari/internal/database"
	"baradari/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateProfileRequest struct {
	Nickname string `json:"nickname" binding:"required,min=3,max=50"`
	Username string `json:"username" binding:"required,min=3,max=20"`
}

type UpdateProfileRequest struct {
	Nickname string `json:"nickname"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}

func profileResponse(u *models.User) gin.H {
	avatar := u.Avatar
	if avatar == "" {
		avatar = fallbackAvatar
	}
	status := u.Status
	if status == "" {
		status = "offline"
	}
	return gin.H{
		"id":             u.ID.Hex(),
		"email":          u.Email,
		"nickname":       u.Nickname,
		"username":       u.Username,
		"avatar":         avatar,
		"bio":            u.Bio,
		"status":         status,
		"lastSeen":       u.LastSeen,
		"appLockEnabled": u.AppLockEnabled,
		"createdAt":      u.CreatedAt,
	}
}

// CreateProfile completes a fresh account. The avatar defaults to a
// placeholder image seeded by the username.
func CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
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

	update := bson.M{"$set": bson.M{
		"nickname": req.Nickname,
		"username": req.Username,
		"avatar":   "https://picsum.photos/seed/" + req.Username + "/200",
		"bio":      "New Baradari user.",
		"status":   "online",
		"lastSeen": time.Now().Unix(),
	}}

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("create profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "profile created"})
}

// GetMyProfile returns 404 while the profile is incomplete; the
// navigation gate reads that as the create-profile state, not a failure.
func GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	if !user.HasProfile() {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found", "code": "PROFILE_MISSING"})
		return
	}

	c.JSON(http.StatusOK, profileResponse(&user))
}

func UpdateMyProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	set := bson.M{}
	if req.Nickname != "" {
		set["nickname"] = req.Nickname
	}
	if req.Username != "" {
		set["username"] = req.Username
	}
	if req.Avatar != "" {
		set["avatar"] = req.Avatar
	}
	if req.Bio != "" {
		set["bio"] = req.Bio
	}
	if len(set) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "no changes to update"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

func GetUser(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": targetID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, profileResponse(&user))
}

// ListContacts returns every completed profile except the caller's, the
// source of the chat screen's contact list.
func ListContacts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	filter := bson.M{
		"_id":      bson.M{"$ne": userID},
		"nickname": bson.M{"$ne": ""},
		"username": bson.M{"$ne": ""},
	}
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})

	cursor, err := database.Users.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode users"})
		return
	}

	contacts := make([]gin.H, 0, len(users))
	for i := range users {
		contacts = append(contacts, profileResponse(&users[i]))
	}
	c.JSON(http.StatusOK, contacts)
}

// UpdateStatus is the explicit presence write: online on entering the
// app, offline on teardown or network loss. Best-effort by contract.
func UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required,oneof=online offline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"status":   req.Status,
		"lastSeen": time.Now().Unix(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// SaveDeviceToken stores a raw device push token on the profile document.
func SaveDeviceToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
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

	if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"fcmToken": req.Token}}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token saved"})
}
