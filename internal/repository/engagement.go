package repository

import (
	"krishiconnect/internal/model"
)

// ToggleLike flips viewerID's like on a post and moves the counter with it.
func (s *MemoryContentStore) ToggleLike(postID int64, viewerID string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	rec.post.Likes += toggle(rec.likedBy, viewerID)

	post := rec.view(&model.Actor{ID: viewerID})
	return &post, nil
}

// ToggleCommentLike flips viewerID's like on a comment or reply of postID.
func (s *MemoryContentStore) ToggleCommentLike(postID, commentID int64, viewerID string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	c, _ := rec.findComment(commentID)
	if c == nil {
		return nil, model.ErrCommentNotFound
	}
	c.comment.Likes += toggle(c.likedBy, viewerID)

	comment := c.view(&model.Actor{ID: viewerID})
	return &comment, nil
}

// SharePost counts a share. Repeated shares by the same viewer all count.
func (s *MemoryContentStore) SharePost(postID int64, viewerID string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	rec.post.Shares++

	post := rec.view(&model.Actor{ID: viewerID})
	return &post, nil
}

// toggle flips membership of id in set and returns the counter delta.
func toggle(set map[string]struct{}, id string) int {
	if _, liked := set[id]; liked {
		delete(set, id)
		return -1
	}
	set[id] = struct{}{}
	return 1
}
