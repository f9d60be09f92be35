package importlog

import (
	"context"
	"time"
)

// Repository tracks import attempts per matchday.
type Repository interface {
	// Record upserts the attempt row for (item.MatchdayID, Day(item.AttemptDate)).
	Record(ctx context.Context, item Attempt) error
	// CountByMatchday returns lifetime attempt counts for the given ids,
	// excluding ErrorCodeNoResult rows so unpublished reports never eat
	// into the retry budget.
	CountByMatchday(ctx context.Context, matchdayIDs []string) (map[string]int, error)
	// AttemptedOn returns the ids already attempted on the given calendar day.
	AttemptedOn(ctx context.Context, matchdayIDs []string, day time.Time) (map[string]bool, error)
}
