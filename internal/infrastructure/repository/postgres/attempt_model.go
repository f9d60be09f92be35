package postgres

import "time"

type importAttemptTableModel struct {
	ID           int64     `db:"id"`
	MatchdayID   string    `db:"matchday_id"`
	AttemptDate  time.Time `db:"attempt_date"`
	Success      bool      `db:"success"`
	ErrorCode    string    `db:"error_code"`
	ErrorMessage string    `db:"error_message"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type importAttemptInsertModel struct {
	MatchdayID   string    `db:"matchday_id"`
	AttemptDate  time.Time `db:"attempt_date"`
	Success      bool      `db:"success"`
	ErrorCode    string    `db:"error_code"`
	ErrorMessage string    `db:"error_message"`
}

type attemptCountRow struct {
	MatchdayID string `db:"matchday_id"`
	Count      int    `db:"attempt_count"`
}
