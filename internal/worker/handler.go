package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"krishiconnect/internal/cache"
	"krishiconnect/internal/model"
	"krishiconnect/internal/queue"
	"krishiconnect/internal/repository"
)

// ReportSource looks up reports by ID.
// This abstracts the registry so workers only see read access.
type ReportSource interface {
	Get(reportID string) (*model.Report, bool)
}

// Handler processes content events from the queue.
type Handler struct {
	feedCache cache.FeedCache
	reports   ReportSource
	archive   repository.ReportArchive // Can be nil if Postgres is not configured
}

// NewHandler creates a new event handler.
func NewHandler(feedCache cache.FeedCache, reports ReportSource) *Handler {
	return &Handler{
		feedCache: feedCache,
		reports:   reports,
	}
}

// SetArchive sets the decision archive (optional, for report_reviewed events).
func (h *Handler) SetArchive(archive repository.ReportArchive) {
	h.archive = archive
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ContentEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventPostCreated:
		err = h.handlePostCreated(ctx, event)
	case queue.EventPostUpdated:
		err = h.handlePostUpdated(ctx, event)
	case queue.EventPostDeleted:
		err = h.handlePostDeleted(ctx, event)
	case queue.EventReportCreated:
		log.Info().Str("report", event.ReportID).Str("reporter", event.ActorID).Msg("[Worker] ReportCreated")
	case queue.EventReportReviewed:
		err = h.handleReportReviewed(ctx, event)
	default:
		log.Warn().Str("type", event.Type).Msg("[Worker] Unknown event type")
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Dur("duration", time.Since(startTime)).
			Msg("[Worker] HandleEvent FAILED")
		return err
	}

	log.Debug().Str("type", event.Type).Dur("duration", time.Since(startTime)).Msg("[Worker] HandleEvent OK")
	return nil
}

// handlePostCreated indexes a new post under its kind and under "all".
func (h *Handler) handlePostCreated(ctx context.Context, event queue.ContentEvent) error {
	kind := model.PostKind(event.PostKind)
	if !kind.Valid() {
		return fmt.Errorf("post %d: invalid kind %q", event.PostID, event.PostKind)
	}
	if err := h.feedCache.AddPost(ctx, kind, event.PostID, event.CreatedAt); err != nil {
		return fmt.Errorf("index post: %w", err)
	}

	log.Debug().Int64("post", event.PostID).Str("kind", event.PostKind).Msg("[Worker] PostCreated DONE")
	return nil
}

// handlePostUpdated re-indexes a post whose kind may have changed.
func (h *Handler) handlePostUpdated(ctx context.Context, event queue.ContentEvent) error {
	if err := h.feedCache.RemovePost(ctx, event.PostID); err != nil {
		return fmt.Errorf("unindex post: %w", err)
	}
	return h.handlePostCreated(ctx, event)
}

// handlePostDeleted drops a post from every kind index.
func (h *Handler) handlePostDeleted(ctx context.Context, event queue.ContentEvent) error {
	if err := h.feedCache.RemovePost(ctx, event.PostID); err != nil {
		return fmt.Errorf("unindex post: %w", err)
	}

	log.Debug().Int64("post", event.PostID).Str("actor", event.ActorID).Msg("[Worker] PostDeleted DONE")
	return nil
}

// handleReportReviewed archives the final state of a reviewed report.
func (h *Handler) handleReportReviewed(ctx context.Context, event queue.ContentEvent) error {
	if h.archive == nil {
		log.Debug().Str("report", event.ReportID).Msg("[Worker] ReportReviewed: archive not set, skipping")
		return nil
	}

	report, ok := h.reports.Get(event.ReportID)
	if !ok {
		return fmt.Errorf("report %s: %w", event.ReportID, model.ErrReportNotFound)
	}
	if err := h.archive.Record(ctx, *report); err != nil {
		return fmt.Errorf("archive report: %w", err)
	}

	log.Info().Str("report", report.ID).Str("status", string(report.Status)).Bool("removed", event.Removed).
		Msg("[Worker] ReportReviewed archived")
	return nil
}
