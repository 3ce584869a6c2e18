package circulation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// ---- reservations ----

// HasLiveReservationTx: 同一ユーザー・同一書籍の生きている予約があるか
func HasLiveReservationTx(ctx context.Context, tx db.DBTX, userID, bookID int64) (bool, error) {
	const q = `
	SELECT COUNT(*) FROM reservations
	WHERE UserID = ? AND BookID = ? AND StatusID IN (?, ?, ?)`
	args := []any{userID, bookID}
	for _, id := range LiveReservationStatusIDs() {
		args = append(args, id)
	}
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func InsertReservationTx(ctx context.Context, tx db.DBTX, r *Reservation) error {
	const q = `
	INSERT INTO reservations (UserID, BookID, ReservationDate, ExpirationDate, StatusID)
	VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, r.UserID, r.BookID, r.ReservationDate, r.ExpirationDate, int(r.StatusID))
	if err != nil {
		return err
	}
	r.ReservationID, _ = res.LastInsertId()
	return nil
}

// GetReservationForUpdateTx locks the reservation row for the transition.
func GetReservationForUpdateTx(ctx context.Context, tx db.DBTX, reservationID int64) (*Reservation, error) {
	const q = `
	SELECT ReservationID, UserID, BookID, ReservationDate, ExpirationDate, StatusID
	FROM reservations
	WHERE ReservationID = ?
	FOR UPDATE`
	var r Reservation
	err := tx.QueryRowContext(ctx, q, reservationID).Scan(
		&r.ReservationID, &r.UserID, &r.BookID, &r.ReservationDate, &r.ExpirationDate, &r.StatusID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("reservation not found")
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func SetReservationStatusTx(ctx context.Context, tx db.DBTX, reservationID int64, status ReservationStatus) error {
	const q = `UPDATE reservations SET StatusID = ? WHERE ReservationID = ?`
	res, err := tx.ExecContext(ctx, q, int(status), reservationID)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// ---- copies ----

// LockAvailableCopyTx: 貸出可能なコピーを1冊、CopyID の小さい順で行ロック付き確保。
// 同じ最後の1冊を取り合う2つの貸出のうち片方だけが成功する。
func LockAvailableCopyTx(ctx context.Context, tx db.DBTX, bookID int64) (int64, error) {
	const q = `
	SELECT CopyID FROM book_copies
	WHERE BookID = ? AND IsAvailable = 1
	ORDER BY CopyID
	LIMIT 1
	FOR UPDATE`
	var copyID int64
	err := tx.QueryRowContext(ctx, q, bookID).Scan(&copyID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apierr.ErrUnavailable("no available copies to borrow")
	}
	if err != nil {
		return 0, err
	}
	return copyID, nil
}

func SetCopyAvailabilityTx(ctx context.Context, tx db.DBTX, copyID int64, available bool) error {
	const q = `UPDATE book_copies SET IsAvailable = ? WHERE CopyID = ?`
	res, err := tx.ExecContext(ctx, q, available, copyID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return apierr.ErrInternal("failed to update book_copies.IsAvailable")
	}
	return nil
}

// ---- borrows ----

func InsertBorrowTx(ctx context.Context, tx db.DBTX, b *Borrow) error {
	const q = `
	INSERT INTO borrowed_books (BorrowULID, UserID, BookID, CopyID, BorrowDate, DueDate, StatusID, PenaltyFees)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.BorrowULID, b.UserID, b.BookID, b.CopyID, b.BorrowDate, b.DueDate, int(b.StatusID), b.PenaltyFees)
	if err != nil {
		return err
	}
	b.BorrowID, _ = res.LastInsertId()
	return nil
}

func GetBorrowForUpdateTx(ctx context.Context, tx db.DBTX, borrowID int64) (*Borrow, error) {
	const q = `
	SELECT BorrowID, BorrowULID, UserID, BookID, CopyID, BorrowDate, DueDate, ReturnDate, StatusID, PenaltyFees
	FROM borrowed_books
	WHERE BorrowID = ?
	FOR UPDATE`
	var b Borrow
	err := tx.QueryRowContext(ctx, q, borrowID).Scan(
		&b.BorrowID, &b.BorrowULID, &b.UserID, &b.BookID, &b.CopyID,
		&b.BorrowDate, &b.DueDate, &b.ReturnDate, &b.StatusID, &b.PenaltyFees,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("borrowed record not found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func MarkBorrowReturnedTx(ctx context.Context, tx db.DBTX, borrowID int64, returnDate time.Time, penalty int) error {
	const q = `
	UPDATE borrowed_books
	SET ReturnDate = ?, PenaltyFees = ?, StatusID = ?
	WHERE BorrowID = ?`
	res, err := tx.ExecContext(ctx, q, returnDate, penalty, int(BorrowReturnedPending), borrowID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return apierr.ErrInternal("failed to mark borrow returned")
	}
	return nil
}

func SetBorrowStatusTx(ctx context.Context, tx db.DBTX, borrowID int64, status BorrowStatus) error {
	const q = `UPDATE borrowed_books SET StatusID = ? WHERE BorrowID = ?`
	res, err := tx.ExecContext(ctx, q, int(status), borrowID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return apierr.ErrInternal("failed to update borrow status")
	}
	return nil
}

// ---- message helpers ----

// BookTitleTx: 通知文面用。見つからなければ 'Unknown Title'。
func BookTitleTx(ctx context.Context, tx db.DBTX, bookID int64) string {
	var title string
	if err := tx.QueryRowContext(ctx, `SELECT Title FROM books WHERE BookID = ?`, bookID).Scan(&title); err != nil {
		return "Unknown Title"
	}
	return title
}

// UserNameTx: 通知文面用。見つからなければ 'Unknown User'。
func UserNameTx(ctx context.Context, tx db.DBTX, userID int64) string {
	var name string
	if err := tx.QueryRowContext(ctx, `SELECT Fname FROM users WHERE UserID = ?`, userID).Scan(&name); err != nil {
		return "Unknown User"
	}
	return name
}

// ---- lists ----

func (s *Store) ListReserved(ctx context.Context, userID *int64) ([]ReservedBookRow, error) {
	q := `
	SELECT
		r.ReservationID, u.Fname, b.BookID, b.Title, a.AuthorName,
		r.ReservationDate, r.ExpirationDate, rs.StatusName, b.ISBN
	FROM reservations r
	JOIN users u ON r.UserID = u.UserID
	JOIN reservation_status rs ON r.StatusID = rs.StatusID
	LEFT JOIN books b ON r.BookID = b.BookID
	LEFT JOIN authors a ON b.AuthorID = a.AuthorID
	WHERE r.StatusID != ?`
	args := []any{int(ReservationFulfilled)}
	if userID != nil {
		q += ` AND r.UserID = ?`
		args = append(args, *userID)
	}
	q += ` ORDER BY r.ReservationDate DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ReservedBookRow, 0, 16)
	for rows.Next() {
		var (
			row        ReservedBookRow
			author     sql.NullString
			resDate    time.Time
			expDate    time.Time
		)
		if err := rows.Scan(
			&row.ReservationID, &row.UserName, &row.BookID, &row.Title, &author,
			&resDate, &expDate, &row.Status, &row.ISBN,
		); err != nil {
			return nil, err
		}
		row.ReservationDate = resDate.Format("2006-01-02")
		row.ExpirationDate = expDate.Format("2006-01-02")
		if author.Valid {
			row.AuthorName = &author.String
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

func (s *Store) ListBorrowed(ctx context.Context, userID *int64, status *BorrowStatus) ([]BorrowedBookRow, error) {
	q := `
	SELECT
		bb.BorrowID, bb.BorrowULID, u.Fname, b.BookID, b.Title, a.AuthorName,
		bb.BorrowDate, bb.DueDate, bb.ReturnDate, rs.StatusName, b.ISBN, bb.PenaltyFees
	FROM borrowed_books bb
	JOIN users u ON bb.UserID = u.UserID
	JOIN books b ON bb.BookID = b.BookID
	JOIN reservation_status rs ON bb.StatusID = rs.StatusID
	LEFT JOIN authors a ON b.AuthorID = a.AuthorID
	WHERE 1=1`
	args := []any{}
	if userID != nil {
		q += ` AND bb.UserID = ?`
		args = append(args, *userID)
	}
	if status != nil {
		q += ` AND bb.StatusID = ?`
		args = append(args, int(*status))
	}
	q += ` ORDER BY bb.BorrowDate DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]BorrowedBookRow, 0, 16)
	for rows.Next() {
		var (
			row        BorrowedBookRow
			author     sql.NullString
			borrowDate time.Time
			dueDate    time.Time
			returnDate sql.NullTime
		)
		if err := rows.Scan(
			&row.BorrowID, &row.BorrowULID, &row.UserName, &row.BookID, &row.Title, &author,
			&borrowDate, &dueDate, &returnDate, &row.Status, &row.ISBN, &row.PenaltyFees,
		); err != nil {
			return nil, err
		}
		row.BorrowDate = borrowDate.Format("2006-01-02")
		row.DueDate = dueDate.Format("2006-01-02")
		if returnDate.Valid {
			v := returnDate.Time.Format("2006-01-02")
			row.ReturnDate = &v
		}
		if author.Valid {
			row.AuthorName = &author.String
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

// ---- reminder sweeps ----

// OverdueActive: 期日超過かつ貸出中
func (s *Store) OverdueActive(ctx context.Context, today time.Time) ([]reminderRow, error) {
	const q = `
	SELECT bb.BorrowID, bb.UserID, b.Title, bb.DueDate
	FROM borrowed_books bb
	JOIN books b ON bb.BookID = b.BookID
	WHERE bb.DueDate < ? AND bb.StatusID = ?`
	return s.queryReminders(ctx, q, today, int(BorrowActive))
}

// ExpiringReservations: 指定日に失効する予約（Requested のみ）
func (s *Store) ExpiringReservations(ctx context.Context, expiresOn time.Time) ([]reminderRow, error) {
	const q = `
	SELECT r.ReservationID, r.UserID, b.Title, r.ExpirationDate
	FROM reservations r
	JOIN books b ON r.BookID = b.BookID
	WHERE r.ExpirationDate = ? AND r.StatusID = ?`
	return s.queryReminders(ctx, q, expiresOn, int(ReservationRequested))
}

// DueSoon: 指定日が期日の貸出中
func (s *Store) DueSoon(ctx context.Context, dueOn time.Time) ([]reminderRow, error) {
	const q = `
	SELECT bb.BorrowID, bb.UserID, b.Title, bb.DueDate
	FROM borrowed_books bb
	JOIN books b ON bb.BookID = b.BookID
	WHERE bb.DueDate = ? AND bb.StatusID = ?`
	return s.queryReminders(ctx, q, dueOn, int(BorrowActive))
}

func (s *Store) queryReminders(ctx context.Context, q string, args ...any) ([]reminderRow, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []reminderRow
	for rows.Next() {
		var r reminderRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Date); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
