package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func copies(specs ...Copy) []Copy { return specs }

func Test_PlanCopyChange(t *testing.T) {
	tests := []struct {
		name       string
		current    []Copy
		target     int
		wantAdd    []int
		wantRetire []int64
	}{
		{
			name: "no_change",
			current: copies(
				Copy{CopyID: 1, CopyNumber: 1, IsAvailable: true},
				Copy{CopyID: 2, CopyNumber: 2, IsAvailable: true},
			),
			target: 2,
		},
		{
			name: "grow_continues_numbering",
			current: copies(
				Copy{CopyID: 1, CopyNumber: 1, IsAvailable: true},
				Copy{CopyID: 2, CopyNumber: 2, IsAvailable: false},
			),
			target:  4,
			wantAdd: []int{3, 4},
		},
		{
			name:    "grow_from_zero",
			current: nil,
			target:  3,
			wantAdd: []int{1, 2, 3},
		},
		{
			name: "shrink_retires_highest_numbers_first",
			current: copies(
				Copy{CopyID: 10, CopyNumber: 1, IsAvailable: true},
				Copy{CopyID: 11, CopyNumber: 2, IsAvailable: true},
				Copy{CopyID: 12, CopyNumber: 3, IsAvailable: true},
			),
			target:     1,
			wantRetire: []int64{12, 11},
		},
		{
			name: "shrink_skips_on_loan_copies",
			current: copies(
				Copy{CopyID: 10, CopyNumber: 1, IsAvailable: true},
				Copy{CopyID: 11, CopyNumber: 2, IsAvailable: false},
				Copy{CopyID: 12, CopyNumber: 3, IsAvailable: false},
			),
			target:     0,
			wantRetire: []int64{10},
		},
		{
			name: "shrink_capped_at_available_count",
			current: copies(
				Copy{CopyID: 10, CopyNumber: 1, IsAvailable: false},
				Copy{CopyID: 11, CopyNumber: 2, IsAvailable: false},
			),
			target: 0,
		},
		{
			name: "negative_target_treated_as_zero",
			current: copies(
				Copy{CopyID: 10, CopyNumber: 1, IsAvailable: true},
			),
			target:     -3,
			wantRetire: []int64{10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planCopyChange(tt.current, tt.target)
			assert.Equal(t, tt.wantAdd, plan.AddNumbers)
			assert.Equal(t, tt.wantRetire, plan.RetireIDs)
		})
	}
}
