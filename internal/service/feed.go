package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"krishiconnect/internal/cache"
	"krishiconnect/internal/model"
	"krishiconnect/internal/repository"
)

const (
	// FeedDefaultLimit is the default number of posts per page
	FeedDefaultLimit = 10

	// FeedMaxLimit is the maximum number of posts per page
	FeedMaxLimit = 50

	// CacheWarmLimit is max posts to index when warming a kind feed
	CacheWarmLimit = cache.FeedCacheCap
)

// FeedService pages through posts of one kind with a cursor.
// The Redis index is optional; without it pages are cut from the store directly.
type FeedService struct {
	feedCache cache.FeedCache
	store     repository.ContentStore
}

func NewFeedService(feedCache cache.FeedCache, store repository.ContentStore) *FeedService {
	return &FeedService{
		feedCache: feedCache,
		store:     store,
	}
}

// GetFeed retrieves a page of the kind feed.
//
// Flow:
// 1. Check if the kind index exists, warm it from the store if not
// 2. Get post IDs from the index (using cursor if provided)
// 3. Hydrate: fetch viewer-scoped copies from the store
// 4. Build next cursor from last post
func (s *FeedService) GetFeed(ctx context.Context, kind model.PostKind, viewer *model.Actor, cursor *string, limit int) (*model.FeedResponse, error) {
	startTime := time.Now()

	if kind == "" {
		kind = model.PostKindAll
	}
	if kind != model.PostKindAll && !kind.Valid() {
		return nil, model.ErrInvalidPostKind
	}

	if limit <= 0 {
		limit = FeedDefaultLimit
	}
	if limit > FeedMaxLimit {
		limit = FeedMaxLimit
	}

	var cursorScore *float64
	var cursorID int64
	if cursor != nil {
		score, id, err := parseFeedCursor(*cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidCursor, err)
		}
		cursorScore = &score
		cursorID = id
	}

	if s.feedCache == nil {
		return s.pageFromStore(kind, viewer, cursorScore, cursorID, limit), nil
	}

	exists, err := s.feedCache.Exists(ctx, kind)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("[FeedService] Cache check failed")
		return s.pageFromStore(kind, viewer, cursorScore, cursorID, limit), nil
	}

	if !exists {
		log.Debug().Str("kind", string(kind)).Msg("[FeedService] Cache miss, warming")
		if err := s.warmCache(ctx, kind); err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("[FeedService] Cache warm failed")
			return s.pageFromStore(kind, viewer, cursorScore, cursorID, limit), nil
		}
	}

	postIDs, scores, err := s.feedCache.GetFeed(ctx, kind, cursorScore, cursorID, limit)
	if err != nil {
		return nil, fmt.Errorf("get feed from cache: %w", err)
	}

	posts := make([]model.Post, 0, len(postIDs))
	for _, id := range postIDs {
		post, ok := s.store.GetPost(id, viewer)
		// Index entries can trail a removal or a kind change by one event.
		if !ok || !post.Kind.Matches(kind) {
			continue
		}
		posts = append(posts, *post)
	}

	// The cursor follows the index, not the hydrated page, so skipped
	// entries are not revisited.
	resp := &model.FeedResponse{Posts: posts}
	resp.HasMore = len(postIDs) == limit
	if resp.HasMore {
		c := formatFeedCursor(scores[len(scores)-1], postIDs[len(postIDs)-1])
		resp.NextCursor = &c
	}

	log.Debug().
		Str("kind", string(kind)).
		Int("posts", len(posts)).
		Bool("has_more", resp.HasMore).
		Dur("duration", time.Since(startTime)).
		Msg("[FeedService] GetFeed OK")

	return resp, nil
}

// warmCache indexes the newest posts of one kind from the store.
func (s *FeedService) warmCache(ctx context.Context, kind model.PostKind) error {
	posts := s.store.ListPosts(kind, nil)
	if len(posts) > CacheWarmLimit {
		posts = posts[:CacheWarmLimit]
	}
	if len(posts) == 0 {
		return nil
	}

	scores := lo.Map(posts, func(p model.Post, _ int) cache.PostScore {
		return cache.PostScore{PostID: p.ID, Timestamp: p.CreatedAt.UnixMilli()}
	})
	return s.feedCache.WarmCache(ctx, kind, scores)
}

// pageFromStore cuts a page straight from the store, ordered like the index.
func (s *FeedService) pageFromStore(kind model.PostKind, viewer *model.Actor, cursorScore *float64, cursorID int64, limit int) *model.FeedResponse {
	posts := s.store.ListPosts(kind, viewer)
	if cursorScore != nil {
		posts = lo.Filter(posts, func(p model.Post, _ int) bool {
			ts := float64(p.CreatedAt.UnixMilli())
			return ts < *cursorScore || (ts == *cursorScore && p.ID < cursorID)
		})
	}

	resp := &model.FeedResponse{Posts: posts}
	if len(posts) > limit {
		resp.Posts = posts[:limit]
		resp.HasMore = true
		last := resp.Posts[limit-1]
		c := formatFeedCursor(float64(last.CreatedAt.UnixMilli()), last.ID)
		resp.NextCursor = &c
	}
	return resp
}

// parseFeedCursor parses an "id:timestamp" cursor naming the last post served.
// Both paths resume strictly after it: older timestamps, or the same timestamp
// with a lower post ID.
func parseFeedCursor(cursor string) (float64, int64, error) {
	parts := strings.Split(cursor, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid cursor format, expected id:timestamp")
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid post id in cursor: %w", err)
	}

	score, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid timestamp in cursor: %w", err)
	}

	return score, id, nil
}

// formatFeedCursor creates an "id:timestamp" cursor for the last post of a page.
func formatFeedCursor(score float64, id int64) string {
	return fmt.Sprintf("%d:%.0f", id, score)
}
