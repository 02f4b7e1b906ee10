package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/etechnosoft/authgate/internal/logger"
	"github.com/etechnosoft/authgate/internal/models"
)

// UserCacheRepository caches user records in Redis. Token verification
// loads the subject's record on every request; the cache keeps that
// lookup off the database.
type UserCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration for cached user records
}

// NewUserCacheRepository creates a new repository instance with the given TTL.
func NewUserCacheRepository(client *redis.Client, expiration time.Duration) *UserCacheRepository {
	return &UserCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func userKey(username string) string {
	return fmt.Sprintf("user:%s", username)
}

// Get fetches a cached user record. Returns nil without error on a cache miss.
func (r *UserCacheRepository) Get(ctx context.Context, username string) (*models.UserDB, error) {
	key := userKey(username)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logger.Log.Errorw("user cache get failed", "key", key, "error", err)
		return nil, err
	}

	var user models.UserDB
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		logger.Log.Errorw("user cache entry corrupted", "key", key, "error", err)
		return nil, err
	}

	return &user, nil
}

// Set caches a user record with the configured expiration.
func (r *UserCacheRepository) Set(ctx context.Context, user *models.UserDB) error {
	key := userKey(user.Username)

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()
	if err != nil {
		logger.Log.Errorw("user cache set failed", "key", key, "error", err)
	}
	return err
}

// Delete removes a cached user record. Used after activation so the
// cache never serves a stale record.
func (r *UserCacheRepository) Delete(ctx context.Context, username string) error {
	key := userKey(username)

	err := r.client.Del(ctx, key).Err()
	if err != nil {
		logger.Log.Errorw("user cache delete failed", "key", key, "error", err)
	}
	return err
}
