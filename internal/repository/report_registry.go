package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"krishiconnect/internal/model"
)

// MemoryReportRegistry is the in-process ReportRegistry.
// It never holds pointers into the content store.
type MemoryReportRegistry struct {
	mu      sync.RWMutex
	reports []*model.Report // newest first
	byID    map[string]*model.Report
	now     func() time.Time
}

// NewReportRegistry creates an empty registry. now may be nil.
func NewReportRegistry(now func() time.Time) *MemoryReportRegistry {
	if now == nil {
		now = time.Now
	}
	return &MemoryReportRegistry{
		byID: make(map[string]*model.Report),
		now:  now,
	}
}

var _ ReportRegistry = (*MemoryReportRegistry)(nil)

// Add stores a copy of report at the front of the registry.
func (r *MemoryReportRegistry) Add(report model.Report) model.Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := report.Clone()
	r.reports = append([]*model.Report{&stored}, r.reports...)
	r.byID[stored.ID] = &stored
	return stored.Clone()
}

// Get returns a copy of the report, or false if it does not exist.
func (r *MemoryReportRegistry) Get(reportID string) (*model.Report, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[reportID]
	if !ok {
		return nil, false
	}
	out := stored.Clone()
	return &out, true
}

// List returns reports newest first, optionally only those with the given status.
func (r *MemoryReportRegistry) List(status *model.ReportStatus) []model.Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := lo.Filter(r.reports, func(rep *model.Report, _ int) bool {
		return status == nil || rep.Status == *status
	})
	return lo.Map(matched, func(rep *model.Report, _ int) model.Report {
		return rep.Clone()
	})
}

// Stats recomputes the aggregate on every call.
func (r *MemoryReportRegistry) Stats() model.ReportStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byStatus := lo.CountValuesBy(r.reports, func(rep *model.Report) model.ReportStatus {
		return rep.Status
	})
	byKind := lo.CountValuesBy(r.reports, func(rep *model.Report) model.ReportKind {
		return rep.Kind
	})
	return model.ReportStats{
		Total:          len(r.reports),
		Pending:        byStatus[model.ReportStatusPending],
		Accepted:       byStatus[model.ReportStatusAccepted],
		Declined:       byStatus[model.ReportStatusDeclined],
		PostReports:    byKind[model.ReportKindPost],
		CommentReports: byKind[model.ReportKindComment],
	}
}

// Len returns the number of reports.
func (r *MemoryReportRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.reports)
}

// Review stamps a pending report with a terminal status and reviewer.
// effect, when non-nil, runs with the registry lock still held; anything it
// locks must come after the registry in lock order.
func (r *MemoryReportRegistry) Review(reportID string, to model.ReportStatus, reviewer model.Actor, effect func(model.Report)) (*model.Report, error) {
	if !to.Terminal() {
		return nil, fmt.Errorf("review to non-terminal status %q", to)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[reportID]
	if !ok {
		return nil, model.ErrReportNotFound
	}
	if stored.Status != model.ReportStatusPending {
		return nil, model.ErrAlreadyReviewed
	}

	at := r.now()
	stored.Status = to
	stored.ReviewedBy = &reviewer
	stored.ReviewedAt = &at

	if effect != nil {
		effect(stored.Clone())
	}

	out := stored.Clone()
	return &out, nil
}
