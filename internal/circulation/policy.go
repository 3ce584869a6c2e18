package circulation

import "time"

// 運用パラメータ。旧システムのクエリに埋まっていた定数をここに集約する。
const (
	loanPeriodDays     = 14
	reservationTTLDays = 7

	// 延滞ペナルティ（1日あたり、通貨単位）
	penaltyPerDay = 1

	// リマインダー送信の先行日数
	expiryReminderLeadDays = 2
	dueReminderLeadDays    = 3
)

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// penaltyFor: 返却日が期日より後の場合のみ課金。期日ちょうどは 0。
func penaltyFor(due, returned time.Time) int {
	late := int(dateOnly(returned).Sub(dateOnly(due)).Hours() / 24)
	if late <= 0 {
		return 0
	}
	return late * penaltyPerDay
}
