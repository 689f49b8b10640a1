package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"notify-gateway/internal/database"

	"github.com/redis/go-redis/v9"
)

const (
	onlineUsersKey    = "online_users"
	onlineStatusTTL   = 5 * time.Minute
	offlineStatusTTL  = 24 * time.Hour
	userStatusPattern = "user:%s:status"
)

// PresenceService mirrors connect/disconnect facts into redis so the HTTP
// layer (and the rest of the SaaS) can ask who is online without touching
// the registry. Implements gateway.PresenceRecorder.
type PresenceService struct {
	client *database.RedisClient
}

func NewPresenceService(client *database.RedisClient) *PresenceService {
	return &PresenceService{client: client}
}

func (s *PresenceService) UserConnected(ctx context.Context, userID string) {
	pipe := s.client.GetClient().Pipeline()
	pipe.SAdd(ctx, onlineUsersKey, userID)
	pipe.HSet(ctx, fmt.Sprintf(userStatusPattern, userID), map[string]interface{}{
		"status":     "online",
		"last_seen":  time.Now().Unix(),
		"updated_at": time.Now().Unix(),
	})
	pipe.Expire(ctx, fmt.Sprintf(userStatusPattern, userID), onlineStatusTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("Failed to set user online", "userID", userID, "error", err)
	}
}

func (s *PresenceService) UserDisconnected(ctx context.Context, userID string) {
	pipe := s.client.GetClient().Pipeline()
	pipe.SRem(ctx, onlineUsersKey, userID)
	pipe.HSet(ctx, fmt.Sprintf(userStatusPattern, userID), map[string]interface{}{
		"status":     "offline",
		"last_seen":  time.Now().Unix(),
		"updated_at": time.Now().Unix(),
	})
	pipe.Expire(ctx, fmt.Sprintf(userStatusPattern, userID), offlineStatusTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("Failed to set user offline", "userID", userID, "error", err)
	}
}

// Status returns the stored presence hash for one user. An expired or
// never-seen user yields an empty map.
func (s *PresenceService) Status(ctx context.Context, userID string) (map[string]string, error) {
	return s.client.GetClient().HGetAll(ctx, fmt.Sprintf(userStatusPattern, userID)).Result()
}

// OnlineUsers lists every user id currently in the online set.
func (s *PresenceService) OnlineUsers(ctx context.Context) ([]string, error) {
	return s.client.GetClient().SMembers(ctx, onlineUsersKey).Result()
}

// CheckRateLimit allows up to limit calls per window for key, using a
// sliding window of sorted-set members.
func (s *PresenceService) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).Unix()

	pipe := s.client.GetClient().Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.Unix()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return countCmd.Val() < int64(limit), nil
}
