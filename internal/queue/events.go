package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the content stream
const (
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventReportCreated  = "report_created"
	EventReportReviewed = "report_reviewed"
)

// Stream names
const (
	StreamContent = "stream:content"
)

// Consumer group name for content workers
const (
	ConsumerGroupContent = "content_workers"
)

// ContentEvent is published to the content stream.
// All post and report events share this structure.
type ContentEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix millis when the event occurred

	// Post events
	PostID    int64  `json:"post_id,omitempty"`
	PostKind  string `json:"post_kind,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"` // post creation, Unix millis
	ActorID   string `json:"actor_id,omitempty"`

	// Report events
	ReportID string `json:"report_id,omitempty"`
	Status   string `json:"status,omitempty"`
	// Removed is true when accepting the report deleted live content.
	Removed bool `json:"removed,omitempty"`
}

// NewPostCreatedEvent creates an event for a new post.
// Worker will index the post in its kind feed.
func NewPostCreatedEvent(postID int64, kind string, createdAt time.Time, authorID string) ContentEvent {
	return ContentEvent{
		Type:      EventPostCreated,
		Timestamp: time.Now().UnixMilli(),
		PostID:    postID,
		PostKind:  kind,
		CreatedAt: createdAt.UnixMilli(),
		ActorID:   authorID,
	}
}

// NewPostUpdatedEvent creates an event for an edited post.
// Worker will move the post if its kind changed.
func NewPostUpdatedEvent(postID int64, kind string, createdAt time.Time, authorID string) ContentEvent {
	e := NewPostCreatedEvent(postID, kind, createdAt, authorID)
	e.Type = EventPostUpdated
	return e
}

// NewPostDeletedEvent creates an event for a post removed by its author or a moderator.
// Worker will drop the post from every kind feed.
func NewPostDeletedEvent(postID int64, actorID string) ContentEvent {
	return ContentEvent{
		Type:      EventPostDeleted,
		Timestamp: time.Now().UnixMilli(),
		PostID:    postID,
		ActorID:   actorID,
	}
}

// NewReportCreatedEvent creates an event for a newly filed report.
func NewReportCreatedEvent(reportID, reporterID string) ContentEvent {
	return ContentEvent{
		Type:      EventReportCreated,
		Timestamp: time.Now().UnixMilli(),
		ReportID:  reportID,
		ActorID:   reporterID,
		Status:    "pending",
	}
}

// NewReportReviewedEvent creates an event for an accepted or declined report.
// Worker will archive the decision.
func NewReportReviewedEvent(reportID, status, reviewerID string, removed bool) ContentEvent {
	return ContentEvent{
		Type:      EventReportReviewed,
		Timestamp: time.Now().UnixMilli(),
		ReportID:  reportID,
		Status:    status,
		ActorID:   reviewerID,
		Removed:   removed,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e ContentEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseContentEvent parses a ContentEvent from Redis stream message values.
func ParseContentEvent(values map[string]interface{}) (ContentEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ContentEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ContentEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ContentEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
