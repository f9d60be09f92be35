package importlog

import "time"

// MaxAttempts is the lifetime retry budget per matchday. A fixture past the
// budget is excluded from automatic runs and surfaced as stale instead.
const MaxAttempts = 4

// ErrorCodeNoResult marks an attempt that found the meeting report still
// unpublished. Such rows pace retries within a day but never consume the
// lifetime budget; a report appearing late must stay importable.
const ErrorCodeNoResult = "no_result"

// Attempt is one append-only audit row, unique per (MatchdayID, calendar day).
// Rows for past days are never updated; only "today" is upserted.
type Attempt struct {
	MatchdayID   string
	AttemptDate  time.Time
	Success      bool
	ErrorCode    string
	ErrorMessage string
}

// Day truncates a timestamp to its calendar day in UTC, the attempt
// uniqueness granularity.
func Day(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
