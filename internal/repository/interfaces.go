package repository

import (
	"context"

	"krishiconnect/internal/model"
)

// ContentStore owns posts and their comments.
// Viewer arguments only shape the Liked and IsOwnPost flags of returned copies.
type ContentStore interface {
	ListPosts(filter model.PostKind, viewer *model.Actor) []model.Post
	GetPost(postID int64, viewer *model.Actor) (*model.Post, bool)
	CreatePost(author model.AuthorInfo, req model.CreatePostRequest) model.Post
	UpdatePost(postID int64, patch model.PostPatch, requesterID string) (*model.Post, error)
	DeletePost(postID int64, requesterID string) error

	GetComments(postID int64, viewer *model.Actor) []model.Comment
	AddComment(postID int64, author model.AuthorInfo, content string) (*model.Comment, error)
	AddReply(postID, commentID int64, author model.AuthorInfo, content string) (*model.Comment, error)
	DeleteComment(postID, commentID int64, requesterID string) error

	// RemovePost and RemoveComment skip the ownership check. Moderation only.
	RemovePost(postID int64) bool
	RemoveComment(postID, commentID int64) bool

	// SnapshotPost and SnapshotComment return deep copies for report evidence.
	SnapshotPost(postID int64) (model.ContentSnapshot, bool)
	SnapshotComment(postID, commentID int64) (model.ContentSnapshot, bool)

	EngagementStore
}

// EngagementStore holds the only writers of like/share counters and liked flags.
type EngagementStore interface {
	ToggleLike(postID int64, viewerID string) (*model.Post, error)
	ToggleCommentLike(postID, commentID int64, viewerID string) (*model.Comment, error)
	SharePost(postID int64, viewerID string) (*model.Post, error)
}

// ReportRegistry owns report records. Content is referenced by identifier only.
type ReportRegistry interface {
	Add(report model.Report) model.Report
	Get(reportID string) (*model.Report, bool)
	List(status *model.ReportStatus) []model.Report
	Stats() model.ReportStats
	Len() int
	// Review moves a pending report to a terminal status. effect runs while
	// the registry lock is held, after the report has been stamped.
	Review(reportID string, to model.ReportStatus, reviewer model.Actor, effect func(model.Report)) (*model.Report, error)
}

// ReportArchive records moderation decisions for external audit.
type ReportArchive interface {
	Record(ctx context.Context, report model.Report) error
}
