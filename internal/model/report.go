package model

import (
	"errors"
	"time"
)

// ReportKind names what a report targets.
type ReportKind string

const (
	ReportKindPost    ReportKind = "post"
	ReportKindComment ReportKind = "comment"
)

// ReportStatus is the moderation state of a report.
// pending -> accepted and pending -> declined are the only transitions.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusAccepted ReportStatus = "accepted"
	ReportStatusDeclined ReportStatus = "declined"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusAccepted, ReportStatusDeclined:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusAccepted || s == ReportStatusDeclined
}

// ReportReason is drawn from a fixed set per ReportKind.
type ReportReason string

// Post report reasons.
const (
	ReasonSpam                 ReportReason = "spam"
	ReasonMisinformation       ReportReason = "misinformation"
	ReasonInappropriateContent ReportReason = "inappropriate_content"
	ReasonFraud                ReportReason = "fraud"
	ReasonDuplicatePost        ReportReason = "duplicate_post"
	ReasonOther                ReportReason = "other"
)

// Comment report reasons. Disjoint from the post reasons.
const (
	ReasonHarassment      ReportReason = "harassment"
	ReasonHateSpeech      ReportReason = "hate_speech"
	ReasonAbusiveLanguage ReportReason = "abusive_language"
	ReasonOffTopic        ReportReason = "off_topic"
	ReasonSelfPromotion   ReportReason = "self_promotion"
	ReasonOtherComment    ReportReason = "other_comment"
)

var (
	PostReportReasons = []ReportReason{
		ReasonSpam,
		ReasonMisinformation,
		ReasonInappropriateContent,
		ReasonFraud,
		ReasonDuplicatePost,
		ReasonOther,
	}
	CommentReportReasons = []ReportReason{
		ReasonHarassment,
		ReasonHateSpeech,
		ReasonAbusiveLanguage,
		ReasonOffTopic,
		ReasonSelfPromotion,
		ReasonOtherComment,
	}
)

// Reasons returns the reason set accepted for kind, or nil for an unknown kind.
func (k ReportKind) Reasons() []ReportReason {
	switch k {
	case ReportKindPost:
		return PostReportReasons
	case ReportKindComment:
		return CommentReportReasons
	}
	return nil
}

// ContentSnapshot is what the reporter saw. Captured by value at filing
// time and never updated afterwards.
type ContentSnapshot struct {
	Text      string     `json:"text"`
	Author    AuthorInfo `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	Images    []string   `json:"images"`
}

// Report is a user-filed flag against a post or comment.
// ContentID and PostID reference the content store by identifier only.
type Report struct {
	ID          string          `json:"id"`
	Kind        ReportKind      `json:"type"`
	ContentID   int64           `json:"content_id"`
	PostID      *int64          `json:"post_id,omitempty"`
	Reporter    Actor           `json:"reporter"`
	Reason      ReportReason    `json:"reason"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Status      ReportStatus    `json:"status"`
	ReviewedBy  *Actor          `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	Snapshot    ContentSnapshot `json:"content"`
}

// Clone returns a deep copy of r.
func (r Report) Clone() Report {
	out := r
	if r.PostID != nil {
		id := *r.PostID
		out.PostID = &id
	}
	if r.Description != nil {
		d := *r.Description
		out.Description = &d
	}
	if r.ReviewedBy != nil {
		a := *r.ReviewedBy
		out.ReviewedBy = &a
	}
	if r.ReviewedAt != nil {
		t := *r.ReviewedAt
		out.ReviewedAt = &t
	}
	out.Snapshot.Images = append([]string{}, r.Snapshot.Images...)
	return out
}

// ReportStats aggregates the registry. Total == Pending+Accepted+Declined
// == PostReports+CommentReports.
type ReportStats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	Accepted       int `json:"accepted"`
	Declined       int `json:"declined"`
	PostReports    int `json:"post_reports"`
	CommentReports int `json:"comment_reports"`
}

// CreateReportRequest is the request body for filing a report.
type CreateReportRequest struct {
	Kind        ReportKind   `json:"type" validate:"required,oneof=post comment"`
	ContentID   int64        `json:"content_id" validate:"required"`
	PostID      *int64       `json:"post_id"`
	Reason      ReportReason `json:"reason" validate:"required"`
	Description *string      `json:"description" validate:"omitempty,max=1000"`
}

// AcceptReportRequest is the request body for accepting a report.
// DeleteContent defaults to true when omitted.
type AcceptReportRequest struct {
	DeleteContent *bool `json:"delete_content"`
}

// Report errors
var (
	ErrReportNotFound     = errors.New("report not found")
	ErrAlreadyReviewed    = errors.New("report already reviewed")
	ErrInvalidReason      = errors.New("invalid report reason")
	ErrInvalidReportKind  = errors.New("invalid report kind")
	ErrParentPostRequired = errors.New("post id is required for comment reports")
	ErrContentNotFound    = errors.New("reported content not found")
)
