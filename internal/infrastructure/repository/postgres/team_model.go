package postgres

import "time"

type teamTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	ClubName   string     `db:"club_name"`
	TeamName   string     `db:"team_name"`
	Category   string     `db:"category"`
	Region     string     `db:"region"`
	ClubNumber string     `db:"club_number"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type teamSeasonInsertModel struct {
	TeamID   string `db:"team_public_id"`
	Season   string `db:"season"`
	League   string `db:"league"`
	GroupID  string `db:"group_id"`
	Category string `db:"category"`
	Year     string `db:"year"`
}
