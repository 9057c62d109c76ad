package store

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/pkg/errors"

	"github.com/yurykabanov/eslimiter/pkg/domain"
)

var catIndicesColumns = []string{"index", "status", "uuid", "docs.count", "store.size", "creation.date"}

// catIndex is a row of `_cat/indices?format=json`. Numbers come as strings,
// and closed indices have no docs or size.
type catIndex struct {
	Index        string  `json:"index"`
	Status       string  `json:"status"`
	UUID         string  `json:"uuid"`
	DocsCount    *string `json:"docs.count"`
	StoreSize    *string `json:"store.size"`
	CreationDate string  `json:"creation.date"`
}

// Elastic implements domain.Store on top of the Elasticsearch REST API.
type Elastic struct {
	client  *elasticsearch.Client
	timeout time.Duration
}

func NewElastic(client *elasticsearch.Client, timeout time.Duration) *Elastic {
	return &Elastic{
		client:  client,
		timeout: timeout,
	}
}

func (e *Elastic) ListPartitions(ctx context.Context, pattern string) ([]domain.PartitionSummary, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	cat := e.client.Cat.Indices
	res, err := cat(
		cat.WithContext(ctx),
		cat.WithIndex(pattern),
		cat.WithFormat("json"),
		cat.WithBytes("b"),
		cat.WithH(catIndicesColumns...),
		cat.WithS("creation.date"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to query indices")
	}
	defer res.Body.Close()

	// a concrete index name that does not exist
	if res.StatusCode == http.StatusNotFound {
		return []domain.PartitionSummary{}, nil
	}

	if res.IsError() {
		return nil, responseError(res)
	}

	var rows []catIndex
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, errors.Wrap(err, "Unable to decode indices")
	}

	partitions := make([]domain.PartitionSummary, 0, len(rows))
	for _, row := range rows {
		p, err := row.summary()
		if err != nil {
			return nil, err
		}
		partitions = append(partitions, p)
	}

	return partitions, nil
}

func (e *Elastic) DeletePartition(ctx context.Context, name string) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	del := e.client.Indices.Delete
	res, err := del([]string{name}, del.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, "Unable to delete index")
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res)
	}

	return nil
}

func (e *Elastic) Ping(ctx context.Context) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res)
	}

	return nil
}

func (e *Elastic) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

func (r catIndex) summary() (domain.PartitionSummary, error) {
	size, err := parseOptionalUint(r.StoreSize)
	if err != nil {
		return domain.PartitionSummary{}, errors.Wrapf(err, "Invalid store.size of index %s", r.Index)
	}

	docs, err := parseOptionalUint(r.DocsCount)
	if err != nil {
		return domain.PartitionSummary{}, errors.Wrapf(err, "Invalid docs.count of index %s", r.Index)
	}

	millis, err := strconv.ParseInt(r.CreationDate, 10, 64)
	if err != nil {
		return domain.PartitionSummary{}, errors.Wrapf(err, "Invalid creation.date of index %s", r.Index)
	}

	return domain.PartitionSummary{
		Name:      r.Index,
		UUID:      r.UUID,
		Status:    r.Status,
		SizeBytes: size,
		DocCount:  docs,
		CreatedAt: time.Unix(0, millis*int64(time.Millisecond)).UTC(),
	}, nil
}

func parseOptionalUint(v *string) (uint64, error) {
	if v == nil || *v == "" {
		return 0, nil
	}
	return strconv.ParseUint(*v, 10, 64)
}

func responseError(res *esapi.Response) error {
	return errors.Errorf("elasticsearch responded with %s", res.String())
}
