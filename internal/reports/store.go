package reports

import (
	"context"
	"database/sql"

	"libris-backend/internal/circulation"
	"libris-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// 集計は全て読み取り専用Txで流す

func (s *Store) PopularBooks(ctx context.Context) ([]PopularBook, error) {
	const q = `
	SELECT
		b.BookID, b.Title,
		COALESCE(a.AuthorName, '') AS AuthorName,
		COUNT(bb.BorrowID) AS BorrowCount
	FROM borrowed_books bb
	INNER JOIN books b ON bb.BookID = b.BookID
	LEFT JOIN authors a ON b.AuthorID = a.AuthorID
	GROUP BY b.BookID, b.Title, a.AuthorName
	ORDER BY BorrowCount DESC
	LIMIT 10`

	var items []PopularBook
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		rows, err := tx.QueryContext(ctx, q)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = make([]PopularBook, 0, 10)
		for rows.Next() {
			var p PopularBook
			if err := rows.Scan(&p.BookID, &p.Title, &p.AuthorName, &p.BorrowCount); err != nil {
				return err
			}
			items = append(items, p)
		}
		return rows.Err()
	})
	return items, err
}

func (s *Store) OverdueBooks(ctx context.Context) ([]OverdueBook, error) {
	const q = `
	SELECT
		bb.BorrowID, b.Title, u.Fname AS UserName,
		bb.BorrowDate, bb.DueDate,
		DATEDIFF(CURDATE(), bb.DueDate) AS DaysOverdue
	FROM borrowed_books bb
	INNER JOIN books b ON bb.BookID = b.BookID
	INNER JOIN users u ON bb.UserID = u.UserID
	WHERE bb.DueDate < CURDATE() AND bb.StatusID = ?
	ORDER BY bb.DueDate ASC`

	var items []OverdueBook
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		rows, err := tx.QueryContext(ctx, q, int(circulation.BorrowActive))
		if err != nil {
			return err
		}
		defer rows.Close()

		items = make([]OverdueBook, 0, 16)
		for rows.Next() {
			var o OverdueBook
			if err := rows.Scan(&o.BorrowID, &o.Title, &o.UserName, &o.BorrowDate, &o.DueDate, &o.DaysOverdue); err != nil {
				return err
			}
			items = append(items, o)
		}
		return rows.Err()
	})
	return items, err
}

func (s *Store) MostReservedBooks(ctx context.Context) ([]ReservedBook, error) {
	const q = `
	SELECT
		b.BookID, b.Title,
		COALESCE(a.AuthorName, '') AS AuthorName,
		COUNT(r.ReservationID) AS ReservationCount
	FROM reservations r
	INNER JOIN books b ON r.BookID = b.BookID
	LEFT JOIN authors a ON b.AuthorID = a.AuthorID
	GROUP BY b.BookID, b.Title, a.AuthorName
	ORDER BY ReservationCount DESC
	LIMIT 10`

	var items []ReservedBook
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		rows, err := tx.QueryContext(ctx, q)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = make([]ReservedBook, 0, 10)
		for rows.Next() {
			var r ReservedBook
			if err := rows.Scan(&r.BookID, &r.Title, &r.AuthorName, &r.ReservationCount); err != nil {
				return err
			}
			items = append(items, r)
		}
		return rows.Err()
	})
	return items, err
}

func (s *Store) CurrentlyBorrowedBooks(ctx context.Context) ([]BorrowedBook, error) {
	const q = `
	SELECT
		bb.BorrowID, b.Title,
		COALESCE(a.AuthorName, '') AS AuthorName,
		u.Fname AS UserName,
		bb.BorrowDate, bb.DueDate
	FROM borrowed_books bb
	INNER JOIN books b ON bb.BookID = b.BookID
	INNER JOIN users u ON bb.UserID = u.UserID
	LEFT JOIN authors a ON b.AuthorID = a.AuthorID
	WHERE bb.StatusID = ?
	ORDER BY bb.DueDate ASC`

	var items []BorrowedBook
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		rows, err := tx.QueryContext(ctx, q, int(circulation.BorrowActive))
		if err != nil {
			return err
		}
		defer rows.Close()

		items = make([]BorrowedBook, 0, 16)
		for rows.Next() {
			var b BorrowedBook
			if err := rows.Scan(&b.BorrowID, &b.Title, &b.AuthorName, &b.UserName, &b.BorrowDate, &b.DueDate); err != nil {
				return err
			}
			items = append(items, b)
		}
		return rows.Err()
	})
	return items, err
}

func (s *Store) LateReturners(ctx context.Context) ([]LateReturner, error) {
	const q = `
	SELECT
		u.UserID, u.Fname AS UserName,
		COUNT(bb.BorrowID) AS LateReturns
	FROM borrowed_books bb
	INNER JOIN users u ON bb.UserID = u.UserID
	WHERE bb.DueDate < CURDATE() AND bb.StatusID = ?
	GROUP BY u.UserID, u.Fname
	ORDER BY LateReturns DESC
	LIMIT 10`

	var items []LateReturner
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		rows, err := tx.QueryContext(ctx, q, int(circulation.BorrowActive))
		if err != nil {
			return err
		}
		defer rows.Close()

		items = make([]LateReturner, 0, 10)
		for rows.Next() {
			var l LateReturner
			if err := rows.Scan(&l.UserID, &l.UserName, &l.LateReturns); err != nil {
				return err
			}
			items = append(items, l)
		}
		return rows.Err()
	})
	return items, err
}
