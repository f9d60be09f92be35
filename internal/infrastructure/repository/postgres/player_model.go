package postgres

import "time"

type playerTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	CurrentLK string     `db:"current_lk"`
	TVMID     string     `db:"tvm_id"`
	UserID    string     `db:"user_id"`
	Source    string     `db:"source"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type playerInsertModel struct {
	PublicID  string `db:"public_id"`
	Name      string `db:"name"`
	CurrentLK string `db:"current_lk"`
	TVMID     string `db:"tvm_id"`
	UserID    string `db:"user_id"`
	Source    string `db:"source"`
}
