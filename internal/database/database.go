package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"

	"krishiconnect/internal/config"
)

// schema holds the moderation audit table. Rows are append-only.
const schema = `
CREATE TABLE IF NOT EXISTS report_decisions (
	report_id          TEXT PRIMARY KEY,
	kind               TEXT NOT NULL,
	content_id         BIGINT NOT NULL,
	post_id            BIGINT,
	reason             TEXT NOT NULL,
	description        TEXT,
	reporter_id        TEXT NOT NULL,
	reporter_role      TEXT NOT NULL,
	status             TEXT NOT NULL,
	reviewer_id        TEXT NOT NULL,
	reviewer_role      TEXT NOT NULL,
	reported_at        TIMESTAMPTZ NOT NULL,
	reviewed_at        TIMESTAMPTZ NOT NULL,
	snapshot_text      TEXT NOT NULL,
	snapshot_author_id TEXT NOT NULL,
	snapshot_images    TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_report_decisions_reviewed_at ON report_decisions (reviewed_at DESC);
`

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("Connected to database successfully")
	return db, nil
}

// EnsureSchema creates the audit table if it does not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
