package audit

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// Logger writes append-only audit entries. 書き込み失敗は握りつぶす（ログのみ）。
type Logger struct{ db *sql.DB }

func NewLogger(db *sql.DB) *Logger { return &Logger{db: db} }

type Entry struct {
	LogID   int64     `json:"log_id"`
	UserID  int64     `json:"user_id"`
	Fname   string    `json:"name"`
	Context string    `json:"context"`
	Date    time.Time `json:"date"`
}

func (l *Logger) Record(ctx context.Context, userID int64, context_ string) {
	const q = "INSERT INTO logs (UserID, Context, Date) VALUES (?, ?, NOW())"
	if _, err := l.db.ExecContext(ctx, q, userID, context_); err != nil {
		log.Printf("[WARN] audit log failed (user=%d): %v", userID, err)
	}
}

func (l *Logger) ListByUser(ctx context.Context, userID int64) ([]Entry, error) {
	const q = `
	SELECT l.LogID, l.UserID, u.Fname, l.Context, l.Date
	FROM logs l
	JOIN users u ON u.UserID = l.UserID
	WHERE l.UserID = ?
	ORDER BY l.Date DESC`
	rows, err := l.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, 16)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.LogID, &e.UserID, &e.Fname, &e.Context, &e.Date); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
