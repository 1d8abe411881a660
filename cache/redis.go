// Package cache keeps computed group standings in Redis. Entries are derived data: a miss
// or a Redis outage only costs a recomputation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dosada05/tournament-progression/models"
)

type StandingsCache interface {
	Get(ctx context.Context, tournamentID, categoryID int) ([]models.GroupStanding, bool, error)
	Set(ctx context.Context, tournamentID, categoryID int, groups []models.GroupStanding) error
	InvalidateTournament(ctx context.Context, tournamentID int) error
}

func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

type redisStandingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStandingsCache(client *redis.Client, ttl time.Duration) StandingsCache {
	return &redisStandingsCache{client: client, ttl: ttl}
}

func tournamentPrefix(tournamentID int) string {
	return fmt.Sprintf("standings:t%d:", tournamentID)
}

func standingsKey(tournamentID, categoryID int) string {
	return fmt.Sprintf("%sc%d", tournamentPrefix(tournamentID), categoryID)
}

func (c *redisStandingsCache) Get(ctx context.Context, tournamentID, categoryID int) ([]models.GroupStanding, bool, error) {
	val, err := c.client.Get(ctx, standingsKey(tournamentID, categoryID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var groups []models.GroupStanding
	if err := json.Unmarshal(val, &groups); err != nil {
		return nil, false, fmt.Errorf("corrupt standings cache entry: %w", err)
	}
	return groups, true, nil
}

func (c *redisStandingsCache) Set(ctx context.Context, tournamentID, categoryID int, groups []models.GroupStanding) error {
	body, err := json.Marshal(groups)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, standingsKey(tournamentID, categoryID), body, c.ttl).Err()
}

// InvalidateTournament drops the cached standings of every category of the tournament.
func (c *redisStandingsCache) InvalidateTournament(ctx context.Context, tournamentID int) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, tournamentPrefix(tournamentID)+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Noop is used when no Redis is configured.
type Noop struct{}

func (Noop) Get(context.Context, int, int) ([]models.GroupStanding, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, int, int, []models.GroupStanding) error { return nil }

func (Noop) InvalidateTournament(context.Context, int) error { return nil }
