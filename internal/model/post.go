package model

import (
	"errors"
	"time"
)

// PostKind tags what a post is about.
type PostKind string

const (
	PostKindGeneral      PostKind = "general"
	PostKindQuestion     PostKind = "question"
	PostKindAdvice       PostKind = "advice"
	PostKindMarketplace  PostKind = "marketplace"
	PostKindExpertAdvice PostKind = "expert_advice"

	// PostKindAll is a listing filter only; no post carries it.
	PostKindAll PostKind = "all"
)

// PostKinds lists every storable kind, in display order.
var PostKinds = []PostKind{
	PostKindGeneral,
	PostKindQuestion,
	PostKindAdvice,
	PostKindMarketplace,
	PostKindExpertAdvice,
}

// Valid reports whether k is a storable kind.
func (k PostKind) Valid() bool {
	for _, kind := range PostKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Matches reports whether a post of kind k passes the listing filter.
func (k PostKind) Matches(filter PostKind) bool {
	return filter == PostKindAll || filter == "" || filter == k
}

// MarketplaceInfo is the listing summary attached to marketplace posts.
type MarketplaceInfo struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Post is a user-authored content unit.
type Post struct {
	ID          int64            `json:"id"`
	Author      AuthorInfo       `json:"author"`
	Content     string           `json:"content"`
	Images      []string         `json:"images"`
	Tags        []string         `json:"tags"`
	Kind        PostKind         `json:"type"`
	Marketplace *MarketplaceInfo `json:"marketplace_info,omitempty"`
	Likes       int              `json:"likes"`
	Liked       bool             `json:"liked"`
	Comments    int              `json:"comments"`
	Shares      int              `json:"shares"`
	CreatedAt   time.Time        `json:"created_at"`
	IsOwnPost   bool             `json:"is_own_post"`
}

// Clone returns a deep copy of p.
func (p Post) Clone() Post {
	out := p
	out.Images = append([]string{}, p.Images...)
	out.Tags = append([]string{}, p.Tags...)
	if p.Marketplace != nil {
		m := *p.Marketplace
		out.Marketplace = &m
	}
	return out
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Content     string           `json:"content" validate:"required,max=5000"`
	Images      []string         `json:"images" validate:"max=10,dive,url"`
	Tags        []string         `json:"tags" validate:"max=20,dive,min=1,max=50"`
	Kind        PostKind         `json:"type" validate:"omitempty,oneof=general question advice marketplace expert_advice"`
	Marketplace *MarketplaceInfo `json:"marketplace_info"`
}

// PostPatch carries the fields an author may change. Nil means unchanged.
// Counters and identity are not patchable.
type PostPatch struct {
	Content     *string          `json:"content" validate:"omitempty,min=1,max=5000"`
	Images      *[]string        `json:"images" validate:"omitempty,max=10,dive,url"`
	Tags        *[]string        `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	Kind        *PostKind        `json:"type"`
	Marketplace *MarketplaceInfo `json:"marketplace_info"`
}

// Post constraints
const (
	MaxPostContentLength = 5000
	MaxPostImageCount    = 10
)

// Post errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNotPostOwner    = errors.New("not the owner of this post")
	ErrInvalidPostKind = errors.New("invalid post kind")
	ErrTooManyImages   = errors.New("too many images")
	ErrInvalidCursor   = errors.New("invalid feed cursor")
)

// FeedResponse is a page of the cached per-kind feed.
type FeedResponse struct {
	Posts      []Post  `json:"posts"`
	NextCursor *string `json:"next_cursor,omitempty"`
	HasMore    bool    `json:"has_more"`
}
