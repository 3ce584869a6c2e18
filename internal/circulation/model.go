package circulation

import (
	"database/sql"
	"time"
)

// Reservation は reservations テーブルの1行を表す
type Reservation struct {
	ReservationID   int64
	UserID          int64
	BookID          int64
	ReservationDate time.Time
	ExpirationDate  time.Time
	StatusID        ReservationStatus
}

// Borrow は borrowed_books テーブルの1行を表す
type Borrow struct {
	BorrowID    int64
	BorrowULID  string
	UserID      int64
	BookID      int64
	CopyID      int64
	BorrowDate  time.Time
	DueDate     time.Time
	ReturnDate  sql.NullTime
	StatusID    BorrowStatus
	PenaltyFees int
}

// 一覧系のジョイン済みビュー

type ReservedBookRow struct {
	ReservationID   int64   `json:"reservation_id"`
	UserName        string  `json:"user_name"`
	BookID          int64   `json:"book_id"`
	Title           string  `json:"title"`
	AuthorName      *string `json:"author_name,omitempty"`
	ReservationDate string  `json:"reservation_date"`
	ExpirationDate  string  `json:"expiration_date"`
	Status          string  `json:"status"`
	ISBN            string  `json:"isbn"`
}

type BorrowedBookRow struct {
	BorrowID    int64   `json:"borrow_id"`
	BorrowULID  string  `json:"borrow_ulid"`
	UserName    string  `json:"user_name"`
	BookID      int64   `json:"book_id"`
	Title       string  `json:"title"`
	AuthorName  *string `json:"author_name,omitempty"`
	BorrowDate  string  `json:"borrow_date"`
	DueDate     string  `json:"due_date"`
	ReturnDate  *string `json:"return_date,omitempty"`
	Status      string  `json:"status"`
	ISBN        string  `json:"isbn"`
	PenaltyFees int     `json:"penalty_fees"`
}

// リマインダー走査用の最小ビュー
type reminderRow struct {
	ID     int64
	UserID int64
	Title  string
	Date   time.Time
}
