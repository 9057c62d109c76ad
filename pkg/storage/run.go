package storage

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yurykabanov/eslimiter/pkg/domain"
)

const (
	runInsertQuery = `
		INSERT INTO runs (
			trace_id, started_at, finished_at, severity,
			indices_deleted, bytes_deleted, indices_skipped,
			patterns, error
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	deletionInsertQuery = `
		INSERT INTO deletions (
			run_id, pattern, index_name, size_bytes, created_at, deleted_at
		)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	runSelectRecent = `
		SELECT
			id, trace_id, started_at, finished_at, severity,
			indices_deleted, bytes_deleted, indices_skipped,
			patterns, error
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`

	deletionSelectByRuns = `
		SELECT
			run_id, pattern, index_name, size_bytes, created_at, deleted_at
		FROM deletions
		WHERE run_id IN (?)
		ORDER BY id ASC
	`
)

type runRow struct {
	Id             int64
	TraceId        string
	StartedAt      time.Time
	FinishedAt     time.Time
	Severity       int
	IndicesDeleted int64
	BytesDeleted   int64
	IndicesSkipped int64
	Patterns       string
	Error          string
}

type deletionRow struct {
	RunId     int64
	Pattern   string
	IndexName string
	SizeBytes int64
	CreatedAt time.Time
	DeletedAt time.Time
}

type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

func (r *RunRepository) Create(ctx context.Context, run domain.Run) (domain.Run, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return run, err
	}

	res, err := tx.ExecContext(
		ctx, runInsertQuery,
		run.TraceId, run.StartedAt, run.FinishedAt, int(run.Severity),
		int64(run.IndicesDeleted), int64(run.BytesDeleted), int64(run.IndicesSkipped),
		strings.Join(run.Patterns, ","), run.Error,
	)
	if err != nil {
		_ = tx.Rollback()
		return run, errors.Wrap(err, "Unable to insert run")
	}

	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return run, err
	}

	for _, d := range run.Deletions {
		_, err = tx.ExecContext(
			ctx, deletionInsertQuery,
			id, d.Pattern, d.Index, int64(d.SizeBytes), d.CreatedAt, d.DeletedAt,
		)
		if err != nil {
			_ = tx.Rollback()
			return run, errors.Wrap(err, "Unable to insert deletion")
		}
	}

	if err = tx.Commit(); err != nil {
		return run, err
	}

	run.Id = id

	return run, nil
}

// FindRecent returns the latest runs, newest first, with their deletions.
func (r *RunRepository) FindRecent(ctx context.Context, limit int) ([]domain.Run, error) {
	var rows []runRow

	err := r.db.SelectContext(ctx, &rows, runSelectRecent, limit)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return []domain.Run{}, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Id)
	}

	query, args, err := sqlx.In(deletionSelectByRuns, ids)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var deletions []deletionRow

	err = r.db.SelectContext(ctx, &deletions, query, args...)
	if err != nil {
		return nil, err
	}

	byRun := make(map[int64][]domain.Deletion)
	for _, d := range deletions {
		byRun[d.RunId] = append(byRun[d.RunId], domain.Deletion{
			Pattern:   d.Pattern,
			Index:     d.IndexName,
			SizeBytes: uint64(d.SizeBytes),
			CreatedAt: d.CreatedAt,
			DeletedAt: d.DeletedAt,
		})
	}

	runs := make([]domain.Run, 0, len(rows))
	for _, row := range rows {
		var patterns []string
		if row.Patterns != "" {
			patterns = strings.Split(row.Patterns, ",")
		}

		runs = append(runs, domain.Run{
			Id:             row.Id,
			TraceId:        row.TraceId,
			StartedAt:      row.StartedAt,
			FinishedAt:     row.FinishedAt,
			Severity:       domain.Severity(row.Severity),
			IndicesDeleted: uint64(row.IndicesDeleted),
			BytesDeleted:   uint64(row.BytesDeleted),
			IndicesSkipped: uint64(row.IndicesSkipped),
			Patterns:       patterns,
			Error:          row.Error,
			Deletions:      byRun[row.Id],
		})
	}

	return runs, nil
}

// NopRunRepository is used when no journal is configured.
type NopRunRepository struct{}

func (NopRunRepository) Create(_ context.Context, run domain.Run) (domain.Run, error) {
	return run, nil
}

func (NopRunRepository) FindRecent(context.Context, int) ([]domain.Run, error) {
	return []domain.Run{}, nil
}
