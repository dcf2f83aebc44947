package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/storedex/internal/db"
)

// Aggregate runs a grouped aggregation via FT.AGGREGATE.
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.GroupBy == "" {
		return nil, fmt.Errorf("groupby property is required")
	}

	query := q.Query
	if query == "" {
		query = "*"
	}

	args := []string{q.IndexName, query, "GROUPBY", "1", "@" + q.GroupBy}

	for _, r := range q.Reducers {
		if r.Arg == "" {
			args = append(args, "REDUCE", r.Func, "0")
		} else {
			args = append(args, "REDUCE", r.Func, "1", "@"+r.Arg)
		}
		if r.As != "" {
			args = append(args, "AS", r.As)
		}
	}

	if q.SortBy != "" {
		dir := "ASC"
		if q.SortDesc {
			dir = "DESC"
		}
		args = append(args, "SORTBY", "2", "@"+q.SortBy, dir)
	}

	if q.Limit > 0 {
		args = append(args, "LIMIT", "0", strconv.Itoa(q.Limit))
	}

	args = append(args, "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return parseAggregateResult(raw)
}

// parseAggregateResult handles the RESP2 reply: [total, row1, row2, ...]
// where each row is a flat array of property/value pairs.
func parseAggregateResult(raw []rueidis.RedisMessage) (*db.AggregateResult, error) {
	if len(raw) == 0 {
		return &db.AggregateResult{}, nil
	}

	rows := make([]map[string]string, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		pairs, err := raw[i].ToArray()
		if err != nil {
			continue
		}
		rows = append(rows, parseFieldPairs(pairs))
	}

	return &db.AggregateResult{Rows: rows}, nil
}
