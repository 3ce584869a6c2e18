package notify

import (
	"context"
	"database/sql"

	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/auth"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, userID int64, message string, typeID int) error {
	const q = `
	INSERT INTO notifications (UserID, Message, DateSent, Status, NotificationTypeID)
	VALUES (?, ?, NOW(), ?, ?)`
	_, err := s.db.ExecContext(ctx, q, userID, message, statusUnread, typeID)
	return err
}

// StaffUserIDs: Admin/Librarian の UserID 一覧
func (s *Store) StaffUserIDs(ctx context.Context) ([]int64, error) {
	const q = `SELECT UserID FROM users WHERE RoleID IN (?, ?)`
	return s.queryIDs(ctx, q, staffArgs()...)
}

// PatronUserIDs: スタッフ以外の UserID 一覧（ブロードキャスト先）
func (s *Store) PatronUserIDs(ctx context.Context) ([]int64, error) {
	const q = `SELECT UserID FROM users WHERE RoleID NOT IN (?, ?)`
	return s.queryIDs(ctx, q, staffArgs()...)
}

func staffArgs() []any {
	ids := auth.StaffRoleIDs()
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}

func (s *Store) queryIDs(ctx context.Context, q string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]Notification, error) {
	const q = `
	SELECT NotificationID, UserID, Message, DateSent, Status, NotificationTypeID
	FROM notifications
	WHERE UserID = ?
	ORDER BY DateSent DESC`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Notification, 0, 16)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.NotificationID, &n.UserID, &n.Message, &n.DateSent, &n.Status, &n.TypeID); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (s *Store) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	const q = `SELECT COUNT(*) FROM notifications WHERE UserID = ? AND Status = ?`
	var n int64
	if err := s.db.QueryRowContext(ctx, q, userID, statusUnread).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// MarkRead: 既読化。存在しない・既読済みはどちらも NotFound。
func (s *Store) MarkRead(ctx context.Context, notificationID int64) error {
	const q = `UPDATE notifications SET Status = ? WHERE NotificationID = ? AND Status = ?`
	res, err := s.db.ExecContext(ctx, q, statusRead, notificationID, statusUnread)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return apierr.ErrNotFound("notification not found or already marked as read")
	}
	return nil
}
