package handlers

import (
	"context"
	"net/http"
	"time"

	"baradari/internal/database"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// startOfDay returns midnight of t's calendar day in t's own location,
// so "today" follows the deployment's timezone rather than UTC.
func startOfDay(t time.Time) int64 {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).Unix()
}

// DashboardSummary backs the admin dashboard's top cards: totals across
// the whole deployment plus today's message volume.
func DashboardSummary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	totalUsers, err := database.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	onlineUsers, err := database.Users.CountDocuments(ctx, bson.M{"status": "online"})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	totalChats, err := database.Chats.CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	midnight := startOfDay(time.Now())
	messagesToday, err := database.Messages.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": midnight}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":    totalUsers,
		"onlineUsers":   onlineUsers,
		"totalChats":    totalChats,
		"messagesToday": messagesToday,
	})
}

// DashboardActivity returns messages-per-day for the trailing week.
func DashboardActivity(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	since := time.Now().AddDate(0, 0, -7).Unix()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: bson.D{{Key: "$toDate", Value: bson.D{
					{Key: "$multiply", Value: bson.A{"$createdAt", 1000}},
				}}}},
			}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := database.Messages.Aggregate(ctx, pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute activity"})
		return
	}
	defer cursor.Close(ctx)

	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode activity"})
		return
	}

	days := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		days = append(days, gin.H{
			"date":     row["_id"],
			"messages": row["count"],
		})
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}
