package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"krishiconnect/internal/model"
	"krishiconnect/internal/queue"
	"krishiconnect/internal/repository"
)

type PostService struct {
	store     repository.ContentStore
	publisher queue.Publisher
}

// NewPostService wires the post use cases. publisher may be nil.
func NewPostService(store repository.ContentStore, publisher queue.Publisher) *PostService {
	return &PostService{
		store:     store,
		publisher: publisher,
	}
}

// List returns posts of the given kind ("all" or empty for every kind), newest first.
func (s *PostService) List(ctx context.Context, filter model.PostKind, viewer *model.Actor) ([]model.Post, error) {
	if filter != "" && filter != model.PostKindAll && !filter.Valid() {
		return nil, model.ErrInvalidPostKind
	}
	return s.store.ListPosts(filter, viewer), nil
}

// GetByID retrieves a single post.
func (s *PostService) GetByID(ctx context.Context, postID int64, viewer *model.Actor) (*model.Post, error) {
	post, ok := s.store.GetPost(postID, viewer)
	if !ok {
		return nil, model.ErrPostNotFound
	}
	return post, nil
}

// Create validates and stores a new post, then publishes an event for the kind feed.
func (s *PostService) Create(ctx context.Context, author model.AuthorInfo, req model.CreatePostRequest) (*model.Post, error) {
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return nil, model.ErrContentRequired
	}
	if utf8.RuneCountInString(req.Content) > model.MaxPostContentLength {
		return nil, model.ErrContentTooLong
	}
	if len(req.Images) > model.MaxPostImageCount {
		return nil, model.ErrTooManyImages
	}
	if req.Kind != "" && !req.Kind.Valid() {
		return nil, model.ErrInvalidPostKind
	}

	post := s.store.CreatePost(author, req)

	log.Info().
		Int64("post", post.ID).
		Str("author", author.ID).
		Str("kind", string(post.Kind)).
		Msg("[PostService] Created post")

	publish(ctx, s.publisher, "PostService",
		queue.NewPostCreatedEvent(post.ID, string(post.Kind), post.CreatedAt, author.ID))

	return &post, nil
}

// Update applies an author's patch.
func (s *PostService) Update(ctx context.Context, postID int64, requesterID string, patch model.PostPatch) (*model.Post, error) {
	post, err := s.store.UpdatePost(postID, patch, requesterID)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("post", postID).Str("author", requesterID).Msg("[PostService] Updated post")

	if patch.Kind != nil {
		publish(ctx, s.publisher, "PostService",
			queue.NewPostUpdatedEvent(post.ID, string(post.Kind), post.CreatedAt, requesterID))
	}
	return post, nil
}

// Delete removes a post and its comments (only the author can delete).
func (s *PostService) Delete(ctx context.Context, postID int64, requesterID string) error {
	if err := s.store.DeletePost(postID, requesterID); err != nil {
		return err
	}

	log.Info().Int64("post", postID).Str("author", requesterID).Msg("[PostService] Deleted post")

	publish(ctx, s.publisher, "PostService", queue.NewPostDeletedEvent(postID, requesterID))
	return nil
}
