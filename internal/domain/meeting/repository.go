package meeting

import "context"

// ResultRepository persists per-rubber results. ReplaceByMatchday deletes
// every existing row for the matchday before inserting the new set.
type ResultRepository interface {
	ListByMatchday(ctx context.Context, matchdayID string) ([]Result, error)
	ReplaceByMatchday(ctx context.Context, matchdayID string, rows []Result) error
}
