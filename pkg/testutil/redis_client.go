package testutil

import (
	"context"
	"sort"

	"github.com/redis/go-redis/v9"
)

// InMemoryRedisClient backs xredis.Client with plain maps, enough for the
// sorted set operations the leaderboards use.
type InMemoryRedisClient struct {
	zsets map[string]map[string]float64
}

func NewInMemoryRedisClient() *InMemoryRedisClient {
	return &InMemoryRedisClient{zsets: make(map[string]map[string]float64)}
}

func (c *InMemoryRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	_, ok := c.zsets[key]
	return ok, nil
}

func (c *InMemoryRedisClient) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.zsets, key)
	}

	return nil
}

func (c *InMemoryRedisClient) ZAdd(ctx context.Context, key string, z redis.Z) error {
	if _, ok := c.zsets[key]; !ok {
		c.zsets[key] = make(map[string]float64)
	}

	c.zsets[key][z.Member.(string)] = z.Score
	return nil
}

func (c *InMemoryRedisClient) ZIncrBy(
	ctx context.Context, key string, incr int64, member string,
) error {
	if _, ok := c.zsets[key]; !ok {
		c.zsets[key] = make(map[string]float64)
	}

	c.zsets[key][member] += float64(incr)
	return nil
}

// ranked returns members ordered by descending score, ties broken by member
// for determinism.
func (c *InMemoryRedisClient) ranked(key string) []redis.Z {
	zs := make([]redis.Z, 0, len(c.zsets[key]))
	for member, score := range c.zsets[key] {
		zs = append(zs, redis.Z{Member: member, Score: score})
	}

	sort.Slice(zs, func(i, j int) bool {
		if zs[i].Score != zs[j].Score {
			return zs[i].Score > zs[j].Score
		}

		return zs[i].Member.(string) > zs[j].Member.(string)
	})

	return zs
}

func (c *InMemoryRedisClient) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	zs := c.ranked(key)
	if offset >= len(zs) {
		return nil, nil
	}

	end := offset + limit
	if end > len(zs) {
		end = len(zs)
	}

	return zs[offset:end], nil
}

func (c *InMemoryRedisClient) ZRevRank(
	ctx context.Context, key string, member string,
) (uint64, error) {
	for i, z := range c.ranked(key) {
		if z.Member.(string) == member {
			return uint64(i), nil
		}
	}

	return 0, redis.Nil
}

func (c *InMemoryRedisClient) ZScore(
	ctx context.Context, key string, member string,
) (float64, error) {
	score, ok := c.zsets[key][member]
	if !ok {
		return 0, redis.Nil
	}

	return score, nil
}
