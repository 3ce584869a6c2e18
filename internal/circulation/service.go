package circulation

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"libris-backend/internal/audit"
	"libris-backend/internal/notify"
	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/db"
)

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ===== Service本体 =====

type Service struct {
	db       *sql.DB
	store    *Store
	notifier *notify.Notifier
	audit    *audit.Logger
	clock    Clock
	id       IDGen
}

func NewService(conn *sql.DB, notifier *notify.Notifier, auditLog *audit.Logger) *Service {
	return &Service{
		db:       conn,
		store:    NewStore(conn),
		notifier: notifier,
		audit:    auditLog,
		clock:    realClock{},
		id:       ulidGen{},
	}
}

// ReserveBook: 予約登録。在庫は確保しない（確保は貸出時）。
func (s *Service) ReserveBook(ctx context.Context, req ReserveRequest) (*ReserveResponse, error) {
	if req.UserID <= 0 || req.BookID <= 0 {
		return nil, apierr.ErrInvalid("user_id and book_id are required")
	}

	today := dateOnly(s.clock.Now())
	r := Reservation{
		UserID:          req.UserID,
		BookID:          req.BookID,
		ReservationDate: today,
		ExpirationDate:  today.AddDate(0, 0, reservationTTLDays),
		StatusID:        ReservationRequested,
	}

	ob := notify.NewOutbox()
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		exists, err := HasLiveReservationTx(ctx, tx, req.UserID, req.BookID)
		if err != nil {
			return err
		}
		if exists {
			return apierr.ErrConflict("you have already reserved this book")
		}
		if err := InsertReservationTx(ctx, tx, &r); err != nil {
			return err
		}

		title := BookTitleTx(ctx, tx, req.BookID)
		name := UserNameTx(ctx, tx, req.UserID)
		ob.Librarians(
			fmt.Sprintf("A new reservation has been made for '%s' by %s. Please review the reservation.", title, name),
			notify.TypeReservationMade)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Flush(ctx, ob)
	s.audit.Record(ctx, req.UserID, fmt.Sprintf("Reserved book %d (reservation %d)", req.BookID, r.ReservationID))

	return &ReserveResponse{
		ReservationID:  r.ReservationID,
		ExpirationDate: r.ExpirationDate.Format("2006-01-02"),
		Status:         r.StatusID.String(),
	}, nil
}

// UpdateReservationStatus: 司書による予約遷移。遷移可否は fsm が判定する。
func (s *Service) UpdateReservationStatus(ctx context.Context, req UpdateReservationStatusRequest) error {
	target := ReservationStatus(req.StatusID)

	ob := notify.NewOutbox()
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		r, err := GetReservationForUpdateTx(ctx, tx, req.ReservationID)
		if err != nil {
			return err
		}
		if err := CheckReservationTransition(r.StatusID, target); err != nil {
			return err
		}
		if err := SetReservationStatusTx(ctx, tx, r.ReservationID, target); err != nil {
			return err
		}

		title := BookTitleTx(ctx, tx, r.BookID)
		switch target {
		case ReservationApproved:
			ob.User(r.UserID,
				fmt.Sprintf("Your reservation for '%s' has been approved. Please pick up the book before it expires.", title),
				notify.TypeReservationApproved)
		case ReservationFulfilled:
			ob.User(r.UserID,
				fmt.Sprintf("Your reservation for '%s' has been fulfilled.", title),
				notify.TypeReservationFulfill)
		case ReservationCanceled:
			ob.User(r.UserID,
				fmt.Sprintf("Your reservation for '%s' has been canceled.", title),
				notify.TypeReservationCanceled)
		}
		ob.Librarians(
			fmt.Sprintf("Reservation %d for '%s' moved to %s.", r.ReservationID, title, target),
			notify.TypeReservationMade)
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Flush(ctx, ob)
	s.audit.Record(ctx, req.ActingUserID,
		fmt.Sprintf("Updated reservation %d status to %s", req.ReservationID, target))
	return nil
}

// BorrowBook: 承認済み予約をコピーに引き当てて貸出にする。
// コピー確保・予約遷移・貸出行の挿入は同一トランザクション。
func (s *Service) BorrowBook(ctx context.Context, req BorrowRequest) (*BorrowResponse, error) {
	luid, err := s.id.New()
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.clock.Now())
	b := Borrow{
		BorrowULID:  luid,
		UserID:      req.UserID,
		BorrowDate:  today,
		DueDate:     today.AddDate(0, 0, loanPeriodDays),
		StatusID:    BorrowActive,
		PenaltyFees: 0,
	}

	ob := notify.NewOutbox()
	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		r, err := GetReservationForUpdateTx(ctx, tx, req.ReservationID)
		if err != nil {
			return err
		}
		if r.UserID != req.UserID {
			return apierr.ErrConflict("reservation belongs to another user")
		}
		if err := CheckReservationTransition(r.StatusID, ReservationFulfilled); err != nil {
			return apierr.ErrConflict("invalid reservation or not approved for pickup")
		}

		copyID, err := LockAvailableCopyTx(ctx, tx, r.BookID)
		if err != nil {
			return err
		}
		if err := SetCopyAvailabilityTx(ctx, tx, copyID, false); err != nil {
			return err
		}
		if err := SetReservationStatusTx(ctx, tx, r.ReservationID, ReservationFulfilled); err != nil {
			return err
		}

		b.BookID = r.BookID
		b.CopyID = copyID
		if err := InsertBorrowTx(ctx, tx, &b); err != nil {
			return err
		}

		title := BookTitleTx(ctx, tx, r.BookID)
		name := UserNameTx(ctx, tx, req.UserID)
		ob.User(req.UserID,
			fmt.Sprintf("You have successfully borrowed '%s'. Due date is %s.", title, b.DueDate.Format("2006-01-02")),
			notify.TypeBookBorrowed)
		ob.Librarians(fmt.Sprintf("%s has borrowed '%s'.", name, title), notify.TypeBookBorrowed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Flush(ctx, ob)
	s.audit.Record(ctx, req.UserID,
		fmt.Sprintf("Borrowed book %d copy %d (borrow %d)", b.BookID, b.CopyID, b.BorrowID))

	return &BorrowResponse{
		BorrowID:   b.BorrowID,
		BorrowULID: b.BorrowULID,
		CopyID:     b.CopyID,
		BorrowDate: b.BorrowDate.Format("2006-01-02"),
		DueDate:    b.DueDate.Format("2006-01-02"),
	}, nil
}

// ReturnBook: 利用者の返却申告。コピーはまだ在庫に戻さない（司書確認後に戻す）。
func (s *Service) ReturnBook(ctx context.Context, req ReturnRequest) (*ReturnResponse, error) {
	returnDate := dateOnly(s.clock.Now())

	var penalty int
	ob := notify.NewOutbox()
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		b, err := GetBorrowForUpdateTx(ctx, tx, req.BorrowID)
		if err != nil {
			return err
		}
		if b.UserID != req.UserID {
			return apierr.ErrNotFound("no borrowed record found")
		}
		if _, err := NextBorrowStatus(b.StatusID, EventReturn); err != nil {
			return apierr.ErrNotFound("no borrowed record found or book already returned")
		}

		penalty = penaltyFor(b.DueDate, returnDate)
		if err := MarkBorrowReturnedTx(ctx, tx, b.BorrowID, returnDate, penalty); err != nil {
			return err
		}

		title := BookTitleTx(ctx, tx, b.BookID)
		name := UserNameTx(ctx, tx, req.UserID)
		ob.Librarians(
			fmt.Sprintf("%s has returned '%s'. Please confirm the return.", name, title),
			notify.TypeBookReturned)
		if penalty > 0 {
			ob.User(req.UserID,
				fmt.Sprintf("You have been charged a penalty fee of %d for the late return of '%s'.", penalty, title),
				notify.TypePenaltyApplied)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Flush(ctx, ob)
	s.audit.Record(ctx, req.UserID, fmt.Sprintf("Returned borrow %d (penalty %d)", req.BorrowID, penalty))

	return &ReturnResponse{
		BorrowID:    req.BorrowID,
		ReturnDate:  returnDate.Format("2006-01-02"),
		PenaltyFees: penalty,
	}, nil
}

// ConfirmReturn: 司書の受領確認。ここで初めてコピーが在庫に戻る。
// 確認済みの貸出への再確認は黙認せず NotFound で弾く。
func (s *Service) ConfirmReturn(ctx context.Context, req ConfirmReturnRequest) error {
	ob := notify.NewOutbox()
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		b, err := GetBorrowForUpdateTx(ctx, tx, req.BorrowID)
		if err != nil {
			return err
		}
		next, err := NextBorrowStatus(b.StatusID, EventConfirm)
		if err != nil {
			return apierr.ErrNotFound("borrowed book not found or already confirmed")
		}

		if err := SetCopyAvailabilityTx(ctx, tx, b.CopyID, true); err != nil {
			return err
		}
		if err := SetBorrowStatusTx(ctx, tx, b.BorrowID, next); err != nil {
			return err
		}

		title := BookTitleTx(ctx, tx, b.BookID)
		ob.User(b.UserID,
			fmt.Sprintf("Your return for '%s' has been confirmed. Thank you!", title),
			notify.TypeReturnConfirmed)
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Flush(ctx, ob)
	return nil
}

// ---- lists ----

func (s *Service) ListReserved(ctx context.Context, userID *int64) ([]ReservedBookRow, error) {
	return s.store.ListReserved(ctx, userID)
}

func (s *Service) ListBorrowed(ctx context.Context, userID *int64) ([]BorrowedBookRow, error) {
	return s.store.ListBorrowed(ctx, userID, nil)
}

func (s *Service) ListReturnedPending(ctx context.Context) ([]BorrowedBookRow, error) {
	status := BorrowReturnedPending
	return s.store.ListBorrowed(ctx, nil, &status)
}

// ---- reminder sweeps（外部トリガーの一括処理） ----

func (s *Service) SendOverdueNotices(ctx context.Context) (int, error) {
	today := dateOnly(s.clock.Now())
	rows, err := s.store.OverdueActive(ctx, today)
	if err != nil {
		return 0, err
	}
	ob := notify.NewOutbox()
	for _, r := range rows {
		ob.User(r.UserID,
			fmt.Sprintf("Your borrowed book '%s' was due on %s. Please return it as soon as possible to avoid penalties.",
				r.Title, r.Date.Format("2006-01-02")),
			notify.TypeOverdueNotice)
	}
	n := ob.Len()
	s.notifier.Flush(ctx, ob)
	return n, nil
}

func (s *Service) SendReservationExpiryReminders(ctx context.Context) (int, error) {
	expiresOn := dateOnly(s.clock.Now()).AddDate(0, 0, expiryReminderLeadDays)
	rows, err := s.store.ExpiringReservations(ctx, expiresOn)
	if err != nil {
		return 0, err
	}
	ob := notify.NewOutbox()
	for _, r := range rows {
		ob.User(r.UserID,
			fmt.Sprintf("Your reservation for '%s' will expire on %s. Please borrow it before it expires.",
				r.Title, r.Date.Format("2006-01-02")),
			notify.TypeReservationExpiry)
	}
	n := ob.Len()
	s.notifier.Flush(ctx, ob)
	return n, nil
}

func (s *Service) SendDueDateReminders(ctx context.Context) (int, error) {
	dueOn := dateOnly(s.clock.Now()).AddDate(0, 0, dueReminderLeadDays)
	rows, err := s.store.DueSoon(ctx, dueOn)
	if err != nil {
		return 0, err
	}
	ob := notify.NewOutbox()
	for _, r := range rows {
		ob.User(r.UserID,
			fmt.Sprintf("Reminder: The book '%s' you borrowed is due on %s. Please return it by the due date.",
				r.Title, r.Date.Format("2006-01-02")),
			notify.TypeDueDateReminder)
	}
	n := ob.Len()
	s.notifier.Flush(ctx, ob)
	return n, nil
}
