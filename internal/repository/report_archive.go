package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"krishiconnect/internal/model"
)

type reportArchive struct {
	db *sqlx.DB
}

// NewReportArchive returns an append-only Postgres log of moderation decisions.
// Rows are written for audit and never read back into the registry.
func NewReportArchive(db *sqlx.DB) ReportArchive {
	return &reportArchive{db: db}
}

// Record inserts one decision row. Re-recording the same report is a no-op.
func (a *reportArchive) Record(ctx context.Context, report model.Report) error {
	if !report.Status.Terminal() {
		return fmt.Errorf("archive report %s: status %q is not terminal", report.ID, report.Status)
	}

	var reviewerID, reviewerRole *string
	if report.ReviewedBy != nil {
		reviewerID = &report.ReviewedBy.ID
		reviewerRole = &report.ReviewedBy.Role
	}

	query := `
		INSERT INTO report_decisions (
			report_id, kind, content_id, post_id, reason, description,
			reporter_id, reporter_role, status, reviewer_id, reviewer_role,
			reported_at, reviewed_at, snapshot_text, snapshot_author_id, snapshot_images
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (report_id) DO NOTHING
	`
	_, err := a.db.ExecContext(ctx, query,
		report.ID,
		string(report.Kind),
		report.ContentID,
		report.PostID,
		string(report.Reason),
		report.Description,
		report.Reporter.ID,
		report.Reporter.Role,
		string(report.Status),
		reviewerID,
		reviewerRole,
		report.CreatedAt,
		report.ReviewedAt,
		report.Snapshot.Text,
		report.Snapshot.Author.ID,
		pq.Array(report.Snapshot.Images),
	)
	if err != nil {
		return fmt.Errorf("insert report decision: %w", err)
	}
	return nil
}
