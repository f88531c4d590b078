package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"baradari/internal/config"
	"baradari/internal/database"
	"baradari/internal/handlers"
	"baradari/internal/logger"
	"baradari/internal/middleware"
	"baradari/internal/routes"
	"baradari/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting baradari server")

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	var dbErr error
	for i := 1; i <= 3; i++ {
		if dbErr = database.Connect(cfg.MongoURI, cfg.MongoDatabase); dbErr != nil {
			log.Warn().Err(dbErr).Int("attempt", i).Msg("MongoDB connection failed")
			time.Sleep(2 * time.Second)
			continue
		}
		break
	}
	if dbErr != nil {
		log.Fatal().Err(dbErr).Msg("could not connect to MongoDB")
	}
	defer database.Disconnect()

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := database.EnsureIndexes(idxCtx); err != nil {
		idxCancel()
		log.Fatal().Err(err).Msg("could not create indexes")
	}
	idxCancel()

	hub := ws.NewHub(presenceWriter())
	go hub.Run()

	handlers.Setup(cfg, hub)
	handlers.EnsureVAPIDKeys()

	router := routes.Setup(cfg)
	router.GET("/ws", func(c *gin.Context) {
		ws.Handler(hub, func(token string) (string, error) {
			claims, err := middleware.ParseToken(token, cfg.JWTSecret)
			if err != nil {
				return "", err
			}
			return claims.UserID, nil
		})(c.Writer, c.Request)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}

// presenceWriter returns the hub callback that mirrors connection state
// into the profile's status field. Best-effort by design: a failed write
// leaves a stale flag, never an error.
func presenceWriter() ws.Presence {
	return func(userID string, online bool) {
		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return
		}

		status := "offline"
		if online {
			status = "online"
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err = database.Users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
			"status":   status,
			"lastSeen": time.Now().Unix(),
		}})
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("presence write failed")
		}
	}
}
