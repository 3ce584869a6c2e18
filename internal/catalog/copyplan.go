package catalog

import "sort"

// copyPlan describes how to move a book's copy population to a target count.
type copyPlan struct {
	// AddNumbers: 追加するコピーの CopyNumber（既存の最大番号の続き）
	AddNumbers []int
	// RetireIDs: 退役（IsAvailable=0）にする CopyID
	RetireIDs []int64
}

// planCopyChange computes the reconciliation from the current copies to target.
// 縮小時は「現在貸出可能なコピーだけを、CopyNumber の大きい順に」退役する。
// 貸出中のコピーは対象外なので、目標まで減らせないことがある。その場合は
// 減らせる分だけ退役して成功とする（退役数はレスポンスで報告する）。
func planCopyChange(current []Copy, target int) copyPlan {
	if target < 0 {
		target = 0
	}

	active := 0
	maxNumber := 0
	for _, c := range current {
		if c.IsAvailable {
			active++
		}
		if c.CopyNumber > maxNumber {
			maxNumber = c.CopyNumber
		}
	}
	// 貸出中のコピーも「在籍」には数える：総在籍 = 退役していない全コピー
	total := len(current)

	var plan copyPlan
	switch {
	case target > total:
		for n := maxNumber + 1; n <= maxNumber+(target-total); n++ {
			plan.AddNumbers = append(plan.AddNumbers, n)
		}
	case target < total:
		excess := total - target
		avail := make([]Copy, 0, active)
		for _, c := range current {
			if c.IsAvailable {
				avail = append(avail, c)
			}
		}
		sort.Slice(avail, func(i, j int) bool { return avail[i].CopyNumber > avail[j].CopyNumber })
		if excess > len(avail) {
			excess = len(avail)
		}
		for i := 0; i < excess; i++ {
			plan.RetireIDs = append(plan.RetireIDs, avail[i].CopyID)
		}
	}
	return plan
}
