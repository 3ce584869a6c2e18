package circulation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris-backend/internal/platform/apierr"
)

func Test_CheckReservationTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{"requested_to_approved", ReservationRequested, ReservationApproved, true},
		{"requested_to_canceled", ReservationRequested, ReservationCanceled, true},
		{"requested_to_expired", ReservationRequested, ReservationExpired, true},
		{"legacy_pending_to_approved", ReservationPending, ReservationApproved, true},
		{"approved_to_fulfilled", ReservationApproved, ReservationFulfilled, true},
		{"approved_to_canceled", ReservationApproved, ReservationCanceled, true},
		{"approved_to_expired", ReservationApproved, ReservationExpired, true},

		{"requested_to_fulfilled_needs_approval", ReservationRequested, ReservationFulfilled, false},
		{"fulfilled_is_terminal", ReservationFulfilled, ReservationCanceled, false},
		{"canceled_is_terminal", ReservationCanceled, ReservationApproved, false},
		{"expired_is_terminal", ReservationExpired, ReservationApproved, false},
		{"no_self_transition", ReservationApproved, ReservationApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckReservationTransition(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var api *apierr.APIError
			require.True(t, errors.As(err, &api))
			assert.Equal(t, apierr.CodeConflict, api.Code)
		})
	}
}

func Test_ReservationStatus_Live(t *testing.T) {
	assert.True(t, ReservationPending.Live())
	assert.True(t, ReservationRequested.Live())
	assert.True(t, ReservationApproved.Live())
	assert.False(t, ReservationFulfilled.Live())
	assert.False(t, ReservationCanceled.Live())
	assert.False(t, ReservationExpired.Live())

	// クエリ用のID列はLive判定と一致していること
	assert.ElementsMatch(t, []int{1, 5, 6}, LiveReservationStatusIDs())
}

func Test_NextBorrowStatus(t *testing.T) {
	tests := []struct {
		name    string
		cur     BorrowStatus
		ev      BorrowEvent
		want    BorrowStatus
		wantErr bool
	}{
		{"active_return", BorrowActive, EventReturn, BorrowReturnedPending, false},
		{"pending_confirm", BorrowReturnedPending, EventConfirm, BorrowConfirmed, false},
		{"double_return", BorrowReturnedPending, EventReturn, 0, true},
		{"confirm_before_return", BorrowActive, EventConfirm, 0, true},
		{"confirmed_is_terminal", BorrowConfirmed, EventReturn, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBorrowStatus(tt.cur, tt.ev)
			if tt.wantErr {
				require.Error(t, err)
				var api *apierr.APIError
				require.True(t, errors.As(err, &api))
				assert.Equal(t, apierr.CodeConflict, api.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
