package player

import "context"

// Repository exposes canonical player operations. Create is only invoked
// when resolution fails to find any candidate above the match floor.
type Repository interface {
	ListAll(ctx context.Context) ([]Player, error)
	Create(ctx context.Context, item Player) (string, error)
	UpdateLK(ctx context.Context, id, currentLK string) error
}
