package circulation

import (
	"fmt"

	"libris-backend/internal/platform/apierr"
)

// ステータスコードは reservation_status テーブルの StatusID と対応する。
// 既存データから参照されるため番号は変更しないこと。
type ReservationStatus int

const (
	ReservationPending   ReservationStatus = 1 // 旧実装が残した行。Requested と同等に扱う
	ReservationFulfilled ReservationStatus = 2
	ReservationRequested ReservationStatus = 5
	ReservationApproved  ReservationStatus = 6
	ReservationCanceled  ReservationStatus = 10
	ReservationExpired   ReservationStatus = 11
)

func (s ReservationStatus) String() string {
	switch s {
	case ReservationPending:
		return "Pending"
	case ReservationFulfilled:
		return "Fulfilled"
	case ReservationRequested:
		return "Requested"
	case ReservationApproved:
		return "Approved"
	case ReservationCanceled:
		return "Canceled"
	case ReservationExpired:
		return "Expired"
	default:
		return fmt.Sprintf("ReservationStatus(%d)", int(s))
	}
}

// Live: この予約がまだ「生きている」か。同一ユーザー・同一書籍の重複予約判定に使う。
func (s ReservationStatus) Live() bool {
	return s == ReservationPending || s == ReservationRequested || s == ReservationApproved
}

// LiveReservationStatusIDs returns the persisted codes covered by Live,
// for use as query parameters.
func LiveReservationStatusIDs() []int {
	return []int{int(ReservationPending), int(ReservationRequested), int(ReservationApproved)}
}

// 予約の遷移表。ここを唯一のガードにして、ハンドラ毎の WHERE StatusID=? の重複を避ける。
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationApproved, ReservationCanceled, ReservationExpired},
	ReservationRequested: {ReservationApproved, ReservationCanceled, ReservationExpired},
	ReservationApproved:  {ReservationFulfilled, ReservationCanceled, ReservationExpired},
}

// CheckReservationTransition rejects illegal moves with a Conflict error.
func CheckReservationTransition(from, to ReservationStatus) error {
	for _, allowed := range reservationTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return apierr.ErrConflict(fmt.Sprintf("cannot move reservation from %s to %s", from, to))
}

type BorrowStatus int

const (
	BorrowReturnedPending BorrowStatus = 2 // 返却済み・司書の確認待ち
	BorrowConfirmed       BorrowStatus = 3
	BorrowActive          BorrowStatus = 4
)

func (s BorrowStatus) String() string {
	switch s {
	case BorrowReturnedPending:
		return "ReturnedPendingConfirmation"
	case BorrowConfirmed:
		return "Confirmed"
	case BorrowActive:
		return "Active"
	default:
		return fmt.Sprintf("BorrowStatus(%d)", int(s))
	}
}

type BorrowEvent int

const (
	EventReturn BorrowEvent = iota
	EventConfirm
)

func (e BorrowEvent) String() string {
	switch e {
	case EventReturn:
		return "Return"
	case EventConfirm:
		return "Confirm"
	default:
		return fmt.Sprintf("BorrowEvent(%d)", int(e))
	}
}

// NextBorrowStatus applies an event to the borrow lifecycle:
// Active(4) -> ReturnedPendingConfirmation(2) -> Confirmed(3).
func NextBorrowStatus(cur BorrowStatus, ev BorrowEvent) (BorrowStatus, error) {
	switch {
	case cur == BorrowActive && ev == EventReturn:
		return BorrowReturnedPending, nil
	case cur == BorrowReturnedPending && ev == EventConfirm:
		return BorrowConfirmed, nil
	}
	return 0, apierr.ErrConflict(fmt.Sprintf("cannot apply %s to borrow in state %s", ev, cur))
}
