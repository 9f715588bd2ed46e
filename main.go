package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/YuBaBing/FCS/api"
	"github.com/YuBaBing/FCS/auth"
	"github.com/YuBaBing/FCS/blob"
	"github.com/YuBaBing/FCS/service"
	"github.com/YuBaBing/FCS/storage"
)

const tokenTTL = time.Hour

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET is required")
	}
	port := envOr("SERVER_PORT", "3000")
	uploadDir := envOr("UPLOAD_DIR", "uploads")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(os.Getenv("MONGO_URL")))
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(envOr("MONGO_DBNAME", "social_media"))
	mongoStorage := &storage.MongoStorage{
		Users: db.Collection("users"),
		Posts: db.Collection("posts"),
	}
	if err := mongoStorage.EnsureIndexes(ctx); err != nil {
		logger.Fatal("create indexes", zap.Error(err))
	}

	var posts storage.PostStorage = mongoStorage
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		posts = &storage.CachedStorage{
			Client:          redis.NewClient(&redis.Options{Addr: redisURL}),
			InternalStorage: mongoStorage,
		}
		logger.Info("feed cache enabled", zap.String("redis", redisURL))
	}

	blobs, err := blob.NewDiskStore(uploadDir, "/uploads")
	if err != nil {
		logger.Fatal("upload dir", zap.Error(err))
	}

	tokens := auth.NewTokenService([]byte(secret), tokenTTL)
	authSvc := service.NewAuthService(mongoStorage, tokens, logger)
	postSvc := service.NewPostService(posts, blobs, logger)

	handler := api.NewHTTPHandler(authSvc, postSvc, logger)
	srv := api.MakeServer(api.NewRouter(handler, tokens, uploadDir, logger), port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
