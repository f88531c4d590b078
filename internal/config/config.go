package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	MongoURI        string
	MongoDatabase   string
	JWTSecret       string
	Env             string
	TokenTTLHours   int
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string
	AllowedOrigins  []string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func Load() Config {
	ttlStr := getenv("TOKEN_TTL_HOURS", "24")
	ttl, err := strconv.Atoi(ttlStr)
	if err != nil || ttl <= 0 {
		ttl = 24
	}
	return Config{
		Port:            getenv("PORT", "8080"),
		MongoURI:        getenv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:   getenv("MONGODB_DATABASE", "baradari"),
		JWTSecret:       getenv("JWT_SECRET", "dev-secret-change-me"),
		Env:             getenv("APP_ENV", "dev"),
		TokenTTLHours:   ttl,
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubscriber: getenv("VAPID_SUBSCRIBER", "mailto:admin@baradari.app"),
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5500",
			"http://127.0.0.1:5500",
			"http://localhost:9002",
		},
	}
}
