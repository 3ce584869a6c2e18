package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// ---- authors / genres (tx-scoped) ----

// ResolveAuthorTx: 名前完全一致で AuthorID を引き当て、無ければ作る。
// 戻り値 created は新規作成したかどうか（新著者通知に使う）。
func ResolveAuthorTx(ctx context.Context, tx db.DBTX, name string) (id int64, created bool, err error) {
	const q = `SELECT AuthorID FROM authors WHERE AuthorName = ?`
	err = tx.QueryRowContext(ctx, q, name).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO authors (AuthorName) VALUES (?)`, name)
	if err != nil {
		return 0, false, err
	}
	id, _ = res.LastInsertId()
	return id, true, nil
}

// ReplaceGenresTx: 既存の関連を全削除して張り直す。ジャンルは名前で引き当て、無ければ作る。
func ReplaceGenresTx(ctx context.Context, tx db.DBTX, bookID int64, genres []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM books_genre WHERE BookID = ?`, bookID); err != nil {
		return err
	}
	for _, name := range genres {
		var genreID int64
		err := tx.QueryRowContext(ctx, `SELECT GenreID FROM genres WHERE GenreName = ?`, name).Scan(&genreID)
		if errors.Is(err, sql.ErrNoRows) {
			res, insErr := tx.ExecContext(ctx, `INSERT INTO genres (GenreName) VALUES (?)`, name)
			if insErr != nil {
				return insErr
			}
			genreID, _ = res.LastInsertId()
		} else if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO books_genre (BookID, GenreID) VALUES (?, ?)`, bookID, genreID); err != nil {
			return err
		}
	}
	return nil
}

// ---- books ----

func InsertBookTx(ctx context.Context, tx db.DBTX, b *Book) error {
	const q = `
	INSERT INTO books (Title, AuthorID, ISBN, PublicationDate, ProviderID, PublisherID, Description)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.Title, b.AuthorID, b.ISBN, b.PublicationDate, b.ProviderID, b.PublisherID, b.Description)
	if err != nil {
		return err
	}
	b.BookID, _ = res.LastInsertId()
	return nil
}

func UpdateBookTx(ctx context.Context, tx db.DBTX, b *Book) error {
	const q = `
	UPDATE books
	SET Title = ?, AuthorID = ?, ISBN = ?, PublicationDate = ?, ProviderID = ?, PublisherID = ?, Description = ?
	WHERE BookID = ?`
	res, err := tx.ExecContext(ctx, q,
		b.Title, b.AuthorID, b.ISBN, b.PublicationDate, b.ProviderID, b.PublisherID, b.Description, b.BookID)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		// 同値更新でも0になるため存在確認を挟む
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM books WHERE BookID = ?`, b.BookID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apierr.ErrNotFound("book not found")
			}
			return err
		}
	}
	return nil
}

// AddCopiesTx inserts copies with the given numbers, all available.
func AddCopiesTx(ctx context.Context, tx db.DBTX, bookID int64, numbers []int) error {
	const q = `INSERT INTO book_copies (BookID, CopyNumber, IsAvailable) VALUES (?, ?, 1)`
	for _, n := range numbers {
		if _, err := tx.ExecContext(ctx, q, bookID, n); err != nil {
			return err
		}
	}
	return nil
}

// ListCopiesForUpdateTx loads all copy rows of a book with row locks,
// so reconciliation races with borrowBook's copy grab are serialized.
func ListCopiesForUpdateTx(ctx context.Context, tx db.DBTX, bookID int64) ([]Copy, error) {
	const q = `
	SELECT CopyID, BookID, CopyNumber, IsAvailable
	FROM book_copies
	WHERE BookID = ?
	ORDER BY CopyNumber
	FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var copies []Copy
	for rows.Next() {
		var c Copy
		if err := rows.Scan(&c.CopyID, &c.BookID, &c.CopyNumber, &c.IsAvailable); err != nil {
			return nil, err
		}
		copies = append(copies, c)
	}
	return copies, rows.Err()
}

func RetireCopiesTx(ctx context.Context, tx db.DBTX, copyIDs []int64) error {
	const q = `UPDATE book_copies SET IsAvailable = 0 WHERE CopyID = ?`
	for _, id := range copyIDs {
		res, err := tx.ExecContext(ctx, q, id)
		if err != nil {
			return err
		}
		if aff, _ := res.RowsAffected(); aff != 1 {
			return apierr.ErrInternal("failed to retire book copy")
		}
	}
	return nil
}

func (s *Store) GetBookTitle(ctx context.Context, bookID int64) (string, error) {
	var title string
	err := s.db.QueryRowContext(ctx, `SELECT Title FROM books WHERE BookID = ?`, bookID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apierr.ErrNotFound("book not found")
	}
	if err != nil {
		return "", err
	}
	return title, nil
}

// ListBooks: 一覧（著者・出版社・提供元・在庫数・ジャンルの集計ビュー）
func (s *Store) ListBooks(ctx context.Context) ([]BookSummary, error) {
	const q = `
	SELECT
		b.BookID,
		b.Title,
		COALESCE(a.AuthorName, ''),
		p.PublisherName,
		b.ISBN,
		b.PublicationDate,
		COALESCE(bp.ProviderName, ''),
		b.Description,
		COUNT(DISTINCT bc.CopyID) AS TotalCopies,
		COALESCE(SUM(CASE WHEN bc.IsAvailable = 1 THEN 1 ELSE 0 END), 0) AS AvailableCopies,
		GROUP_CONCAT(DISTINCT g.GenreName SEPARATOR ',')
	FROM books b
	LEFT JOIN authors a ON b.AuthorID = a.AuthorID
	LEFT JOIN publisher p ON b.PublisherID = p.PublisherID
	LEFT JOIN book_providers bp ON b.ProviderID = bp.ProviderID
	LEFT JOIN book_copies bc ON b.BookID = bc.BookID
	LEFT JOIN books_genre bg ON b.BookID = bg.BookID
	LEFT JOIN genres g ON bg.GenreID = g.GenreID
	GROUP BY b.BookID
	ORDER BY b.Title ASC`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]BookSummary, 0, 32)
	for rows.Next() {
		var (
			bs        BookSummary
			pubName   sql.NullString
			pubDate   time.Time
			desc      sql.NullString
			genreCSV  sql.NullString
		)
		if err := rows.Scan(
			&bs.BookID, &bs.Title, &bs.AuthorName, &pubName, &bs.ISBN, &pubDate,
			&bs.ProviderName, &desc, &bs.TotalCopies, &bs.AvailableCopies, &genreCSV,
		); err != nil {
			return nil, err
		}
		bs.PublicationDate = pubDate.Format(dateLayout)
		if pubName.Valid {
			bs.PublisherName = &pubName.String
		}
		if desc.Valid {
			bs.Description = &desc.String
		}
		if genreCSV.Valid && genreCSV.String != "" {
			bs.Genres = strings.Split(genreCSV.String, ",")
		} else {
			bs.Genres = []string{}
		}
		items = append(items, bs)
	}
	return items, rows.Err()
}

// ---- simple lookups ----

func (s *Store) ListGenres(ctx context.Context) ([]Genre, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT GenreID, GenreName FROM genres ORDER BY GenreName ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Genre, 0, 16)
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.GenreID, &g.GenreName); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

func (s *Store) GenreExists(ctx context.Context, name string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM genres WHERE GenreName = ?`, name).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) InsertGenre(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO genres (GenreName) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (s *Store) ListAuthors(ctx context.Context) ([]Author, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT AuthorID, AuthorName FROM authors ORDER BY AuthorName ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Author, 0, 16)
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.AuthorID, &a.AuthorName); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (s *Store) AuthorExists(ctx context.Context, name string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM authors WHERE AuthorName = ?`, name).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) InsertAuthor(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO authors (AuthorName) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (s *Store) ListStatuses(ctx context.Context) ([]Status, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT StatusID, StatusName FROM reservation_status ORDER BY StatusID ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Status, 0, 8)
	for rows.Next() {
		var st Status
		if err := rows.Scan(&st.StatusID, &st.StatusName); err != nil {
			return nil, err
		}
		items = append(items, st)
	}
	return items, rows.Err()
}
