package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/eslimiter/pkg/appcontext"
	"github.com/yurykabanov/eslimiter/pkg/domain"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 500
)

type RunRepository interface {
	FindRecent(ctx context.Context, limit int) ([]domain.Run, error)
}

type RunsHandler struct {
	logger logrus.FieldLogger
	repo   RunRepository
}

func NewRunsHandler(logger logrus.FieldLogger, repo RunRepository) *RunsHandler {
	return &RunsHandler{
		logger: logger,
		repo:   repo,
	}
}

type deletionResponse struct {
	Pattern   string `json:"index_pattern"`
	Index     string `json:"index_name"`
	SizeBytes uint64 `json:"size_bytes"`
	DeletedAt int64  `json:"deleted_at_mtime"`
}

type runResponse struct {
	TraceId        string             `json:"trace_id"`
	Severity       string             `json:"severity"`
	StartedAt      int64              `json:"started_at_mtime"`
	Duration       int64              `json:"duration_ms"`
	IndicesDeleted uint64             `json:"indices_deleted"`
	BytesDeleted   uint64             `json:"bytes_deleted"`
	IndicesSkipped uint64             `json:"indices_skipped"`
	Patterns       []string           `json:"index_patterns"`
	Error          string             `json:"error,omitempty"`
	Deletions      []deletionResponse `json:"deletions"`
}

func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	logger := appcontext.LoggerFromContext(h.logger, ctx)

	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if n > maxRunsLimit {
			n = maxRunsLimit
		}
		limit = n
	}

	runs, err := h.repo.FindRecent(ctx, limit)
	if err != nil {
		logger.WithError(err).Error("Unable to query recent runs")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	result := make([]runResponse, 0, len(runs))

	for _, run := range runs {
		deletions := make([]deletionResponse, 0, len(run.Deletions))
		for _, d := range run.Deletions {
			deletions = append(deletions, deletionResponse{
				Pattern:   d.Pattern,
				Index:     d.Index,
				SizeBytes: d.SizeBytes,
				DeletedAt: d.DeletedAt.UnixNano() / 1e6,
			})
		}

		result = append(result, runResponse{
			TraceId:        run.TraceId,
			Severity:       run.Severity.String(),
			StartedAt:      run.StartedAt.UnixNano() / 1e6,
			Duration:       run.FinishedAt.Sub(run.StartedAt).Nanoseconds() / 1e6,
			IndicesDeleted: run.IndicesDeleted,
			BytesDeleted:   run.BytesDeleted,
			IndicesSkipped: run.IndicesSkipped,
			Patterns:       run.Patterns,
			Error:          run.Error,
			Deletions:      deletions,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	err = enc.Encode(result)
	if err != nil {
		logger.WithError(err).Error("Unable to encode response")
	}
}

// Health reports that the process is up.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
