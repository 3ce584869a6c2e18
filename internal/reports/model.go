package reports

import "time"

// PopularBook は貸出回数の多い本
type PopularBook struct {
	BookID      int64  `json:"book_id"`
	Title       string `json:"title"`
	AuthorName  string `json:"author_name"`
	BorrowCount int    `json:"borrow_count"`
}

type OverdueBook struct {
	BorrowID    int64     `json:"borrow_id"`
	Title       string    `json:"title"`
	UserName    string    `json:"user_name"`
	BorrowDate  time.Time `json:"borrow_date"`
	DueDate     time.Time `json:"due_date"`
	DaysOverdue int       `json:"days_overdue"`
}

type ReservedBook struct {
	BookID           int64  `json:"book_id"`
	Title            string `json:"title"`
	AuthorName       string `json:"author_name"`
	ReservationCount int    `json:"reservation_count"`
}

type BorrowedBook struct {
	BorrowID   int64     `json:"borrow_id"`
	Title      string    `json:"title"`
	AuthorName string    `json:"author_name"`
	UserName   string    `json:"user_name"`
	BorrowDate time.Time `json:"borrow_date"`
	DueDate    time.Time `json:"due_date"`
}

type LateReturner struct {
	UserID      int64  `json:"user_id"`
	UserName    string `json:"user_name"`
	LateReturns int    `json:"late_returns"`
}
