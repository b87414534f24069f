package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"krishiconnect/internal/model"
	"krishiconnect/internal/repository"
)

// EngagementService is the only caller of the store's like and share writers.
// It never touches comment counts or content.
type EngagementService struct {
	store repository.EngagementStore
}

func NewEngagementService(store repository.EngagementStore) *EngagementService {
	return &EngagementService{store: store}
}

// ToggleLike likes or unlikes a post for viewer.
func (s *EngagementService) ToggleLike(ctx context.Context, postID int64, viewer model.Actor) (*model.Post, error) {
	post, err := s.store.ToggleLike(postID, viewer.ID)
	if err != nil {
		return nil, err
	}
	log.Debug().Int64("post", postID).Str("viewer", viewer.ID).Bool("liked", post.Liked).
		Msg("[EngagementService] Toggled post like")
	return post, nil
}

// ToggleCommentLike likes or unlikes a comment under postID for viewer.
func (s *EngagementService) ToggleCommentLike(ctx context.Context, postID, commentID int64, viewer model.Actor) (*model.Comment, error) {
	comment, err := s.store.ToggleCommentLike(postID, commentID, viewer.ID)
	if err != nil {
		return nil, err
	}
	log.Debug().Int64("post", postID).Int64("comment", commentID).Str("viewer", viewer.ID).
		Bool("liked", comment.Liked).Msg("[EngagementService] Toggled comment like")
	return comment, nil
}

// Share counts a share. There is no per-viewer dedup.
func (s *EngagementService) Share(ctx context.Context, postID int64, viewer model.Actor) (*model.Post, error) {
	post, err := s.store.SharePost(postID, viewer.ID)
	if err != nil {
		return nil, err
	}
	log.Debug().Int64("post", postID).Str("viewer", viewer.ID).Int("shares", post.Shares).
		Msg("[EngagementService] Shared post")
	return post, nil
}
