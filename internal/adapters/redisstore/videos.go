// Package redisstore keeps the video catalog in Redis: one JSON value per
// video plus a sorted set by creation time for newest-first listing.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/screenerhq/screener/internal/core"
	"github.com/screenerhq/screener/internal/domain"
)

const byCreatedKey = "videos:by_created"

func videoKey(id domain.VideoID) string {
	return fmt.Sprintf("video:%s", id)
}

type VideoStore struct {
	rdb *redis.Client
}

// New connects to Redis at addr and pings it with a short timeout so a
// misconfigured address fails fast at startup.
func New(addr string) (*VideoStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &VideoStore{rdb: rdb}, nil
}

func (s *VideoStore) Close() error {
	return s.rdb.Close()
}

func (s *VideoStore) Put(ctx context.Context, v *domain.Video) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal video: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, videoKey(v.ID), data, 0)
	pipe.ZAdd(ctx, byCreatedKey, redis.Z{
		Score:  float64(v.CreatedAt.UnixNano()),
		Member: string(v.ID),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store video: %w", err)
	}
	return nil
}

func (s *VideoStore) Get(ctx context.Context, id domain.VideoID) (*domain.Video, error) {
	data, err := s.rdb.Get(ctx, videoKey(id)).Result()
	if err == redis.Nil {
		return nil, core.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	var v domain.Video
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video: %w", err)
	}
	return &v, nil
}

// List returns all videos newest-first.
func (s *VideoStore) List(ctx context.Context) ([]*domain.Video, error) {
	ids, err := s.rdb.ZRevRange(ctx, byCreatedKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	out := make([]*domain.Video, 0, len(ids))
	for _, id := range ids {
		v, err := s.Get(ctx, domain.VideoID(id))
		if err == core.ErrVideoNotFound {
			// Index entry outlived its value; drop it lazily.
			log.Warn().Str("module", "redisstore").Str("id", id).Msg("stale catalog index entry")
			s.rdb.ZRem(ctx, byCreatedKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *VideoStore) Delete(ctx context.Context, id domain.VideoID) error {
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, videoKey(id))
	pipe.ZRem(ctx, byCreatedKey, string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}
