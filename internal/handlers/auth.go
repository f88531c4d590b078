package handlers

import (
	"context"
	"net/http"
	"time"

	"baradari/internal/database"
	"baradari/internal/middleware"
	"baradari/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func issueToken(userID string) (string, error) {
	return middleware.GenerateToken(userID, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
}

// Signup creates the auth record only. The chat profile stays missing
// until the user completes /api/profile, which is what routes fresh
// accounts through the create-profile screen.
func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var existing models.User
	err := database.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
		return
	}
	if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Status:       "offline",
		CreatedAt:    time.Now().Unix(),
		LastSeen:     time.Now().Unix(),
	}

	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		log.Error().Err(err).Msg("signup insert user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	token, err := issueToken(user.ID.Hex())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":  token,
		"userId": user.ID.Hex(),
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := issueToken(user.ID.Hex())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.ID.Hex(),
	})
}

// Logout flips the caller offline. Tokens are not revoked server-side;
// the client just drops its copy.
func Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	_, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"status": "offline", "lastSeen": time.Now().Unix()},
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.Hex()).Msg("logout presence write")
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// reauthenticate loads the caller and verifies the current password.
// Both credential changes below require it.
func reauthenticate(ctx context.Context, userID primitive.ObjectID, currentPassword string) (*models.User, int, string) {
	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, http.StatusNotFound, "user not found"
	}
	if err != nil {
		return nil, http.StatusInternalServerError, "database error"
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return nil, http.StatusUnauthorized, "current password is incorrect"
	}
	return &user, 0, ""
}

func ChangeEmail(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewEmail        string `json:"newEmail" binding:"required,email"`
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

	if _, status, msg := reauthenticate(ctx, userID, req.CurrentPassword); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	count, err := database.Users.CountDocuments(ctx, bson.M{"email": req.NewEmail, "_id": bson.M{"$ne": userID}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
		return
	}

	if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"email": req.NewEmail}}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email updated"})
}

func ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
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

	if _, status, msg := reauthenticate(ctx, userID, req.CurrentPassword); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"passwordHash": string(hash)}}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
