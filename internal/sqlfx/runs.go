package sqlfx

import (
	"github.com/jmoiron/sqlx"

	"github.com/yurykabanov/eslimiter/pkg/domain"
	"github.com/yurykabanov/eslimiter/pkg/http/handler"
	"github.com/yurykabanov/eslimiter/pkg/storage"
)

// RunsRepository falls back to a no-op journal when no database is configured.
func RunsRepository(db *sqlx.DB) (
	domain.RunRepository,
	handler.RunRepository,
) {
	if db == nil {
		repo := storage.NopRunRepository{}
		return repo, repo
	}

	repo := storage.NewRunRepository(db)

	return repo, repo
}
