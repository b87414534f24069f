package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"krishiconnect/internal/model"
)

const (
	// FeedCachePrefix is the key prefix for per-kind feed indexes
	FeedCachePrefix = "feed:kind:"

	// FeedCacheCap is the maximum number of posts kept per kind
	FeedCacheCap = 500

	// FeedCacheTTL is the TTL for a kind feed (7 days)
	FeedCacheTTL = 7 * 24 * time.Hour
)

// PostScore represents a post with its creation time score for caching
type PostScore struct {
	PostID    int64
	Timestamp int64 // Unix millis
}

// FeedCache indexes post IDs per post kind, newest first.
// Every post is also indexed under model.PostKindAll.
// Entries with equal timestamps are ordered by post ID, descending.
type FeedCache interface {
	// AddPost indexes a post under its kind and under "all".
	// Indexes that do not exist yet are left alone; the next read warms them.
	AddPost(ctx context.Context, kind model.PostKind, postID int64, timestamp int64) error

	// RemovePost drops a post from every kind index.
	RemovePost(ctx context.Context, postID int64) error

	// GetFeed returns post IDs strictly after the (cursorScore, cursorID) position,
	// or the newest if cursorScore is nil, with their scores.
	GetFeed(ctx context.Context, kind model.PostKind, cursorScore *float64, cursorID int64, limit int) (postIDs []int64, scores []float64, err error)

	// WarmCache bulk-inserts posts into one kind index.
	WarmCache(ctx context.Context, kind model.PostKind, posts []PostScore) error

	// Exists reports whether the kind index is present (false after TTL expiry).
	Exists(ctx context.Context, kind model.PostKind) (bool, error)

	// Size returns the number of posts in the kind index.
	Size(ctx context.Context, kind model.PostKind) (int64, error)
}

// RedisFeedCache implements FeedCache using Redis Sorted Sets.
type RedisFeedCache struct {
	client *redis.Client
}

// NewFeedCache creates a new FeedCache backed by Redis.
func NewFeedCache(client *redis.Client) FeedCache {
	return &RedisFeedCache{client: client}
}

func feedKey(kind model.PostKind) string {
	if kind == "" {
		kind = model.PostKindAll
	}
	return FeedCachePrefix + string(kind)
}

func allKinds() []model.PostKind {
	return append([]model.PostKind{model.PostKindAll}, model.PostKinds...)
}

// feedMember zero-pads the post ID so lexical order within a score matches numeric order.
func feedMember(postID int64) string {
	return fmt.Sprintf("%019d", postID)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// addIfIndexed adds one member to every existing key in KEYS, then trims and refreshes TTL.
// ARGV: score, member, cap, ttl seconds. Returns the number of keys updated.
var addIfIndexed = redis.NewScript(`
local updated = 0
for _, key in ipairs(KEYS) do
  if redis.call('EXISTS', key) == 1 then
    redis.call('ZADD', key, ARGV[1], ARGV[2])
    redis.call('ZREMRANGEBYRANK', key, 0, -tonumber(ARGV[3]) - 1)
    redis.call('EXPIRE', key, ARGV[4])
    updated = updated + 1
  end
end
return updated
`)

// AddPost adds the post to the "all" and kind indexes that are already warm.
// A missing index is not created here, so a cold or expired feed is rebuilt from
// the store on its next read rather than holding only the newest posts.
func (c *RedisFeedCache) AddPost(ctx context.Context, kind model.PostKind, postID int64, timestamp int64) error {
	keys := []string{feedKey(model.PostKindAll), feedKey(kind)}
	updated, err := addIfIndexed.Run(ctx, c.client, keys,
		timestamp, feedMember(postID), FeedCacheCap, int64(FeedCacheTTL.Seconds())).Int()
	if err != nil {
		return fmt.Errorf("add post to feed: %w", err)
	}

	log.Debug().Str("kind", string(kind)).Int64("post", postID).Int("indexes", updated).Msg("[FeedCache] AddPost OK")
	return nil
}

// RemovePost removes a post from every kind index.
func (c *RedisFeedCache) RemovePost(ctx context.Context, postID int64) error {
	member := feedMember(postID)

	pipe := c.client.Pipeline()
	for _, kind := range allKinds() {
		pipe.ZRem(ctx, feedKey(kind), member)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("remove post from feed: %w", err)
	}

	log.Debug().Int64("post", postID).Msg("[FeedCache] RemovePost OK")
	return nil
}

// GetFeed uses ZREVRANGE without a cursor. With one it reads ZREVRANGEBYSCORE from the
// cursor score inclusive, over-fetching by the number of entries sharing that score,
// and drops those at or above the cursor ID.
func (c *RedisFeedCache) GetFeed(ctx context.Context, kind model.PostKind, cursorScore *float64, cursorID int64, limit int) ([]int64, []float64, error) {
	key := feedKey(kind)

	var results []redis.Z
	var err error
	if cursorScore == nil {
		results, err = c.client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	} else {
		score := formatScore(*cursorScore)
		var ties int64
		ties, err = c.client.ZCount(ctx, key, score, score).Result()
		if err != nil {
			return nil, nil, fmt.Errorf("count feed ties: %w", err)
		}
		results, err = c.client.ZRevRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
			Min:   "-inf",
			Max:   score,
			Count: int64(limit) + ties,
		}).Result()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get feed: %w", err)
	}

	// Refresh TTL on access
	c.client.Expire(ctx, key, FeedCacheTTL)

	postIDs := make([]int64, 0, limit)
	scores := make([]float64, 0, limit)
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected feed member %v", z.Member)
		}
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse post id: %w", err)
		}
		if cursorScore != nil && z.Score == *cursorScore && id >= cursorID {
			continue
		}
		postIDs = append(postIDs, id)
		scores = append(scores, z.Score)
		if len(postIDs) == limit {
			break
		}
	}
	return postIDs, scores, nil
}

// WarmCache bulk-inserts posts into one kind index using a pipeline.
func (c *RedisFeedCache) WarmCache(ctx context.Context, kind model.PostKind, posts []PostScore) error {
	if len(posts) == 0 {
		return nil
	}
	key := feedKey(kind)

	members := make([]redis.Z, len(posts))
	for i, p := range posts {
		members[i] = redis.Z{
			Score:  float64(p.Timestamp),
			Member: feedMember(p.PostID),
		}
	}

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, key, members...)
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-FeedCacheCap-1))
	pipe.Expire(ctx, key, FeedCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	log.Info().Str("kind", string(kind)).Int("posts", len(posts)).Msg("[FeedCache] WarmCache OK")
	return nil
}

// Exists checks if a kind index is present.
func (c *RedisFeedCache) Exists(ctx context.Context, kind model.PostKind) (bool, error) {
	n, err := c.client.Exists(ctx, feedKey(kind)).Result()
	if err != nil {
		return false, fmt.Errorf("check cache exists: %w", err)
	}
	return n > 0, nil
}

// Size returns the number of posts in a kind index.
func (c *RedisFeedCache) Size(ctx context.Context, kind model.PostKind) (int64, error) {
	size, err := c.client.ZCard(ctx, feedKey(kind)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get cache size: %w", err)
	}
	return size, nil
}
