package notify

import "time"

// 通知種別コード。notification_type テーブルの NotificationTypeID と対応する。
// 既存データから参照されるため番号は変更しないこと。
const (
	TypeReservationMade     = 1
	TypeBookBorrowed        = 2
	TypeBookReturned        = 3
	TypeReturnConfirmed     = 4
	TypeOverdueNotice       = 5
	TypeReservationExpiry   = 6
	TypeDueDateReminder     = 7
	TypePenaltyApplied      = 8
	TypeNewBookAdded        = 9
	TypeReservationCanceled = 10
	TypeBookUpdated         = 11
	TypeReservationApproved = 12
	TypeReservationFulfill  = 13
	TypeNewCopyAdded        = 17
	TypeNewAuthorAdded      = 18
)

const (
	statusUnread = "Unread"
	statusRead   = "Read"
)

// Notification は notifications テーブルの1行を表す
type Notification struct {
	NotificationID int64     `json:"notification_id"`
	UserID         int64     `json:"user_id"`
	Message        string    `json:"message"`
	DateSent       time.Time `json:"date_sent"`
	Status         string    `json:"status"`
	TypeID         int       `json:"notification_type_id"`
}
