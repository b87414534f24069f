package model

import (
	"errors"
	"time"
)

// Comment is a reply to a post. Replies nest one level deep.
type Comment struct {
	ID        int64      `json:"id"`
	PostID    int64      `json:"post_id"`
	Author    AuthorInfo `json:"author"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	Likes     int        `json:"likes"`
	Liked     bool       `json:"liked"`
	Replies   []Comment  `json:"replies"`
}

// Clone returns a deep copy of c including its replies.
func (c Comment) Clone() Comment {
	out := c
	out.Replies = make([]Comment, len(c.Replies))
	for i, r := range c.Replies {
		out.Replies[i] = r.Clone()
	}
	return out
}

// CreateCommentRequest is the request body for creating a comment or reply.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2200"`
}

// Comment constraints
const (
	MaxCommentLength = 2200
)

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
	ErrContentRequired = errors.New("content is required")
	ErrContentTooLong  = errors.New("content too long")
)
