package viewed

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of the pgx pool surface the repository needs; it keeps
// the queries testable against a mock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewPgx(db DB) *Pgx {
	return &Pgx{
		db: db,
	}
}

var _ Repository = (*Pgx)(nil)

type Pgx struct {
	db DB
}

func (p *Pgx) GetByStoryID(ctx context.Context, storyID string) (*domain.ViewedMark, error) {
	query, args, err := repository.SqBuilder.
		Select("story_id", "owner_id", "viewed_at").
		From("story_views").
		Where(
			sq.Eq{"story_id": storyID},
		).ToSql()
	if err != nil {
		return nil, repository.ErrBadQuery
	}

	mark := domain.ViewedMark{}
	err = p.db.QueryRow(ctx, query, args...).Scan(&mark.StoryID, &mark.OwnerID, &mark.ViewedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &mark, nil
}

func (p *Pgx) Create(ctx context.Context, mark domain.ViewedMark) error {
	query, args, err := repository.SqBuilder.
		Insert("story_views").
		Columns(
			"story_id",
			"owner_id",
			"viewed_at",
		).Values(
		mark.StoryID,
		mark.OwnerID,
		mark.ViewedAt,
	).Suffix("ON CONFLICT (story_id) DO NOTHING").ToSql()
	if err != nil {
		return repository.ErrBadQuery
	}

	_, err = p.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Join(err, ErrCannotCreate)
	}

	return nil
}

func (p *Pgx) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	query, args, err := repository.SqBuilder.
		Delete("story_views").
		Where(sq.Lt{"viewed_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, repository.ErrBadQuery
	}

	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
