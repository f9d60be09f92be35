package matchday

import (
	"context"
	"time"
)

// Repository exposes matchday read operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Matchday, bool, error)
	GetByMeetingID(ctx context.Context, meetingID string) (Matchday, bool, error)
	ListMissingMeetingID(ctx context.Context, before time.Time, limit int) ([]Matchday, error)
	ListMissingResults(ctx context.Context, before time.Time, limit int) ([]Matchday, error)
}
