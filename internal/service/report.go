package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"krishiconnect/internal/model"
	"krishiconnect/internal/queue"
	"krishiconnect/internal/repository"
)

type ReportService struct {
	registry  repository.ReportRegistry
	store     repository.ContentStore
	publisher queue.Publisher
	now       func() time.Time
}

func NewReportService(registry repository.ReportRegistry, store repository.ContentStore, publisher queue.Publisher) *ReportService {
	return &ReportService{
		registry:  registry,
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create files a pending report against a post or comment.
//
// The reported content is captured by value so later edits or removal do not
// change what moderators see. If the content is gone, nothing is recorded.
func (s *ReportService) Create(ctx context.Context, req model.CreateReportRequest, reporter model.Actor) (*model.Report, error) {
	reasons := req.Kind.Reasons()
	if reasons == nil {
		return nil, model.ErrInvalidReportKind
	}
	if !lo.Contains(reasons, req.Reason) {
		return nil, model.ErrInvalidReason
	}
	if req.Kind == model.ReportKindComment && req.PostID == nil {
		return nil, model.ErrParentPostRequired
	}

	var (
		snapshot model.ContentSnapshot
		ok       bool
	)
	switch req.Kind {
	case model.ReportKindPost:
		snapshot, ok = s.store.SnapshotPost(req.ContentID)
	case model.ReportKindComment:
		snapshot, ok = s.store.SnapshotComment(*req.PostID, req.ContentID)
	}
	if !ok {
		return nil, model.ErrContentNotFound
	}

	report := model.Report{
		ID:        uuid.NewString(),
		Kind:      req.Kind,
		ContentID: req.ContentID,
		Reporter:  reporter,
		Reason:    req.Reason,
		CreatedAt: s.now(),
		Status:    model.ReportStatusPending,
		Snapshot:  snapshot,
	}
	if req.PostID != nil {
		postID := *req.PostID
		report.PostID = &postID
	}
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d != "" {
			report.Description = &d
		}
	}

	stored := s.registry.Add(report)

	log.Info().
		Str("report", stored.ID).
		Str("kind", string(stored.Kind)).
		Int64("content", stored.ContentID).
		Str("reason", string(stored.Reason)).
		Str("reporter", reporter.ID).
		Msg("[ReportService] Filed report")

	publish(ctx, s.publisher, "ReportService", queue.NewReportCreatedEvent(stored.ID, reporter.ID))

	return &stored, nil
}

// List returns reports newest first, optionally filtered by status.
func (s *ReportService) List(ctx context.Context, status *model.ReportStatus) []model.Report {
	return s.registry.List(status)
}

// Get returns one report.
func (s *ReportService) Get(ctx context.Context, reportID string) (*model.Report, error) {
	report, ok := s.registry.Get(reportID)
	if !ok {
		return nil, model.ErrReportNotFound
	}
	return report, nil
}

// Stats is recomputed on every call.
func (s *ReportService) Stats(ctx context.Context) model.ReportStats {
	return s.registry.Stats()
}
