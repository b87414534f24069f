package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"krishiconnect/internal/model"
	"krishiconnect/internal/repository"
)

type CommentService struct {
	store repository.ContentStore
}

func NewCommentService(store repository.ContentStore) *CommentService {
	return &CommentService{store: store}
}

// List returns a post's comments in insertion order. A missing post yields
// an empty list, not an error.
func (s *CommentService) List(ctx context.Context, postID int64, viewer *model.Actor) []model.Comment {
	return s.store.GetComments(postID, viewer)
}

// Create adds a top-level comment and bumps the post's comment counter.
func (s *CommentService) Create(ctx context.Context, postID int64, author model.AuthorInfo, req model.CreateCommentRequest) (*model.Comment, error) {
	content, err := validateCommentContent(req.Content)
	if err != nil {
		return nil, err
	}

	comment, err := s.store.AddComment(postID, author, content)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("post", postID).Int64("comment", comment.ID).Str("author", author.ID).
		Msg("[CommentService] Added comment")
	return comment, nil
}

// Reply nests a reply under a top-level comment.
func (s *CommentService) Reply(ctx context.Context, postID, commentID int64, author model.AuthorInfo, req model.CreateCommentRequest) (*model.Comment, error) {
	content, err := validateCommentContent(req.Content)
	if err != nil {
		return nil, err
	}

	reply, err := s.store.AddReply(postID, commentID, author, content)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("post", postID).Int64("parent", commentID).Int64("reply", reply.ID).
		Msg("[CommentService] Added reply")
	return reply, nil
}

// Delete removes a comment or reply (only its author can delete).
func (s *CommentService) Delete(ctx context.Context, postID, commentID int64, requesterID string) error {
	if err := s.store.DeleteComment(postID, commentID, requesterID); err != nil {
		return err
	}

	log.Info().Int64("post", postID).Int64("comment", commentID).Str("author", requesterID).
		Msg("[CommentService] Deleted comment")
	return nil
}

func validateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", model.ErrContentRequired
	}
	if utf8.RuneCountInString(content) > model.MaxCommentLength {
		return "", model.ErrContentTooLong
	}
	return content, nil
}
