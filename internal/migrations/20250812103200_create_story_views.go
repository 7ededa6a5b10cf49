package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateStoryViews, downCreateStoryViews)
}

func upCreateStoryViews(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE story_views (
			story_id VARCHAR PRIMARY KEY,
			owner_id VARCHAR NOT NULL,
			viewed_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
		CREATE INDEX idx_story_views_viewed_at ON story_views (viewed_at);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downCreateStoryViews(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`
		DROP TABLE story_views;
	`)
	if err != nil {
		return err
	}
	return nil
}
