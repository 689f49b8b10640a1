package services

import (
	"context"
	"log/slog"
	"os"

	"notify-gateway/internal/database"

	"github.com/redis/go-redis/v9"
)

const (
	softDisabledKey = "system:disabled"
	soonDisabledKey = "system:soon_disabled"
)

// SystemService reports the externally maintained disable signals: ops
// drop a maintenance flag file on disk for hard disables, while the main
// backend flips redis keys for the soft and soon-disabled states.
// Implements gateway.SystemStateSource.
type SystemService struct {
	client          *database.RedisClient
	maintenanceFile string
}

func NewSystemService(client *database.RedisClient, maintenanceFile string) *SystemService {
	return &SystemService{client: client, maintenanceFile: maintenanceFile}
}

// Maintenance is true while the flag file exists.
func (s *SystemService) Maintenance(_ context.Context) bool {
	if s.maintenanceFile == "" {
		return false
	}
	_, err := os.Stat(s.maintenanceFile)
	return err == nil
}

func (s *SystemService) SoftDisabled(ctx context.Context) bool {
	return s.flagSet(ctx, softDisabledKey)
}

func (s *SystemService) SoonDisabled(ctx context.Context) bool {
	return s.flagSet(ctx, soonDisabledKey)
}

// flagSet treats an unreachable redis as "flag not set": when in doubt the
// gateway keeps delivering normally.
func (s *SystemService) flagSet(ctx context.Context, key string) bool {
	val, err := s.client.GetClient().Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Error("Failed to read system flag", "key", key, "error", err)
		return false
	}
	return val == "1" || val == "true"
}
