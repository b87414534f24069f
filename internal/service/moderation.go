package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"krishiconnect/internal/model"
	"krishiconnect/internal/queue"
	"krishiconnect/internal/repository"
)

// ModerationService resolves pending reports.
//
// Lock order is registry then content: the removal effect runs inside
// ReportRegistry.Review and takes the content store lock from there.
type ModerationService struct {
	registry  repository.ReportRegistry
	store     repository.ContentStore
	publisher queue.Publisher
}

func NewModerationService(registry repository.ReportRegistry, store repository.ContentStore, publisher queue.Publisher) *ModerationService {
	return &ModerationService{
		registry:  registry,
		store:     store,
		publisher: publisher,
	}
}

// Accept marks a pending report accepted and, when deleteContent is set,
// removes the reported post or comment. Content that no longer exists is
// logged and skipped; the acceptance still stands.
func (s *ModerationService) Accept(ctx context.Context, reportID string, deleteContent bool, reviewer model.Actor) (*model.Report, error) {
	removed := false
	var removedPostID int64

	report, err := s.registry.Review(reportID, model.ReportStatusAccepted, reviewer, func(r model.Report) {
		if !deleteContent {
			return
		}
		switch r.Kind {
		case model.ReportKindPost:
			removed = s.store.RemovePost(r.ContentID)
			if removed {
				removedPostID = r.ContentID
			}
		case model.ReportKindComment:
			if r.PostID != nil {
				removed = s.store.RemoveComment(*r.PostID, r.ContentID)
			}
		}
		if !removed {
			log.Warn().
				Str("report", r.ID).
				Str("kind", string(r.Kind)).
				Int64("content", r.ContentID).
				Msg("[ModerationService] Reported content already gone")
		}
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("report", report.ID).
		Str("reviewer", reviewer.ID).
		Bool("delete_content", deleteContent).
		Bool("removed", removed).
		Msg("[ModerationService] Accepted report")

	publish(ctx, s.publisher, "ModerationService",
		queue.NewReportReviewedEvent(report.ID, string(report.Status), reviewer.ID, removed))
	if removedPostID != 0 {
		publish(ctx, s.publisher, "ModerationService", queue.NewPostDeletedEvent(removedPostID, reviewer.ID))
	}

	return report, nil
}

// Decline marks a pending report declined. Content is never touched.
func (s *ModerationService) Decline(ctx context.Context, reportID string, reviewer model.Actor) (*model.Report, error) {
	report, err := s.registry.Review(reportID, model.ReportStatusDeclined, reviewer, nil)
	if err != nil {
		return nil, err
	}

	log.Info().Str("report", report.ID).Str("reviewer", reviewer.ID).Msg("[ModerationService] Declined report")

	publish(ctx, s.publisher, "ModerationService",
		queue.NewReportReviewedEvent(report.ID, string(report.Status), reviewer.ID, false))

	return report, nil
}
