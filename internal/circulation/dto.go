package circulation

// 予約リクエスト
type ReserveRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	BookID int64 `json:"book_id" binding:"required"`
}

type ReserveResponse struct {
	ReservationID  int64  `json:"reservation_id"`
	ExpirationDate string `json:"expiration_date"`
	Status         string `json:"status"`
}

// 予約ステータス更新リクエスト（司書操作）
type UpdateReservationStatusRequest struct {
	ReservationID int64 `json:"reservation_id" binding:"required"`
	StatusID      int   `json:"status_id" binding:"required"`
	ActingUserID  int64 `json:"acting_user_id" binding:"required"`
}

// 貸出リクエスト（承認済み予約の引き換え）
type BorrowRequest struct {
	UserID        int64 `json:"user_id" binding:"required"`
	ReservationID int64 `json:"reservation_id" binding:"required"`
}

type BorrowResponse struct {
	BorrowID   int64  `json:"borrow_id"`
	BorrowULID string `json:"borrow_ulid"`
	CopyID     int64  `json:"copy_id"`
	BorrowDate string `json:"borrow_date"`
	DueDate    string `json:"due_date"`
}

// 返却リクエスト（利用者操作、司書確認待ちになる）
type ReturnRequest struct {
	UserID   int64 `json:"user_id" binding:"required"`
	BorrowID int64 `json:"borrow_id" binding:"required"`
}

type ReturnResponse struct {
	BorrowID    int64  `json:"borrow_id"`
	ReturnDate  string `json:"return_date"`
	PenaltyFees int    `json:"penalty_fees"`
}

// 返却確認リクエスト（司書操作、コピーを在庫に戻す）
type ConfirmReturnRequest struct {
	BorrowID int64 `json:"borrow_id" binding:"required"`
}

type SweepResponse struct {
	NoticesSent int `json:"notices_sent"`
}
