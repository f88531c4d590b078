package handlers

import (
	"testing"

	"baradari/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPartnerViewFallbacks(t *testing.T) {
	view := partnerView(nil)
	assert.Equal(t, "Unknown", view["nickname"])
	assert.Equal(t, fallbackAvatar, view["avatar"])
	assert.Equal(t, "offline", view["status"])

	view = partnerView(bson.M{"nickname": "", "status": ""})
	assert.Equal(t, "Unknown", view["nickname"])
	assert.Equal(t, "offline", view["status"])
}

func TestPartnerViewFields(t *testing.T) {
	id := primitive.NewObjectID()
	view := partnerView(bson.M{
		"_id":      id,
		"nickname": "Amina",
		"username": "amina",
		"avatar":   "https://example.com/a.png",
		"status":   "online",
	})

	assert.Equal(t, id.Hex(), view["id"])
	assert.Equal(t, "Amina", view["nickname"])
	assert.Equal(t, "amina", view["username"])
	assert.Equal(t, "https://example.com/a.png", view["avatar"])
	assert.Equal(t, "online", view["status"])
}

func TestProfileResponseFallbacks(t *testing.T) {
	u := models.User{ID: primitive.NewObjectID(), Nickname: "Amina", Username: "amina"}
	resp := profileResponse(&u)

	assert.Equal(t, fallbackAvatar, resp["avatar"])
	assert.Equal(t, "offline", resp["status"])
	assert.Equal(t, u.ID.Hex(), resp["id"])
}

func TestHasProfile(t *testing.T) {
	assert.False(t, (&models.User{}).HasProfile())
	assert.False(t, (&models.User{Nickname: "Amina"}).HasProfile())
	assert.True(t, (&models.User{Nickname: "Amina", Username: "amina"}).HasProfile())
}
