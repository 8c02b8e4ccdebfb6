// Package storage is the little state this service keeps for itself: pending
// flash notifications in Redis and diagnostic events in PostgreSQL. Complaint
// data never lands here; the API owns it.
package storage

import (
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Storage interface {
	PushFlash(ctx context.Context, box string, f models.Flash) error
	PopFlashes(ctx context.Context, box string) ([]models.Flash, error)

	SaveDiagnostic(ctx context.Context, event *models.DiagnosticEvent) error
	RecentDiagnostics(ctx context.Context, limit int) ([]models.DiagnosticEvent, error)
	PurgeDiagnostics(ctx context.Context, olderThan time.Time) (int64, error)
}

var ErrNotConfigured = errors.New("storage: backing store not configured")

// Service implements Storage. Either client may be nil when its store is not
// configured; the methods that need it then return ErrNotConfigured.
type Service struct {
	DB       *gorm.DB
	Redis    *redis.Client
	FlashTTL time.Duration
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:       db,
		Redis:    rdb,
		FlashTTL: config.FlashTTL,
	}
}

// NewRedisClient connects to Redis and pings it once.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("storage: redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

func flashKey(box string) string {
	return "flash:" + box
}

// PushFlash appends a notification to the browser's box and renews its TTL.
func (s *Service) PushFlash(ctx context.Context, box string, f models.Flash) error {
	if s.Redis == nil {
		return ErrNotConfigured
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}

	key := flashKey(box)
	pipe := s.Redis.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, s.FlashTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("ERROR: Failed to push flash for box %s: %v", box, err)
		return err
	}
	return nil
}

// PopFlashes returns and removes every notification in the box.
func (s *Service) PopFlashes(ctx context.Context, box string) ([]models.Flash, error) {
	if s.Redis == nil {
		return nil, ErrNotConfigured
	}

	key := flashKey(box)
	pipe := s.Redis.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	raw, err := rangeCmd.Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]models.Flash, 0, len(raw))
	for _, item := range raw {
		var f models.Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			log.Printf("WARNING: dropping malformed flash in box %s: %v", box, err)
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

var _ Storage = (*Service)(nil)
