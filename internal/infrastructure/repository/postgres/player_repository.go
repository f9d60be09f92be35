package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/player"
	"github.com/MrSpee/tennis-team-sub004/internal/platform/id"
	qb "github.com/MrSpee/tennis-team-sub004/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db    *sqlx.DB
	idGen id.Generator
}

func NewPlayerRepository(db *sqlx.DB, idGen id.Generator) *PlayerRepository {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &PlayerRepository{db: db, idGen: idGen}
}

func (r *PlayerRepository) ListAll(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.IsNull("deleted_at")).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:        row.PublicID,
			Name:      row.Name,
			CurrentLK: row.CurrentLK,
			TVMID:     row.TVMID,
			UserID:    row.UserID,
			Source:    row.Source,
		})
	}

	return out, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) (string, error) {
	publicID := item.ID
	if publicID == "" {
		generated, err := r.idGen.NewID()
		if err != nil {
			return "", fmt.Errorf("generate player id: %w", err)
		}
		publicID = generated
	}

	insertModel := playerInsertModel{
		PublicID:  publicID,
		Name:      item.Name,
		CurrentLK: item.CurrentLK,
		TVMID:     item.TVMID,
		UserID:    item.UserID,
		Source:    item.Source,
	}

	query, args, err := qb.InsertModel("players", insertModel, "")
	if err != nil {
		return "", fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert player: %w", err)
	}

	return publicID, nil
}

func (r *PlayerRepository) UpdateLK(ctx context.Context, playerID, currentLK string) error {
	query, args, err := qb.Update("players").
		Set("current_lk", currentLK).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player lk query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player lk: %w", err)
	}
	return nil
}
