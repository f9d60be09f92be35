package team

import "context"

// Repository exposes canonical team read operations.
type Repository interface {
	ListAll(ctx context.Context) ([]Team, error)
	CategoriesByID(ctx context.Context, ids []string) (map[string]string, error)
}
