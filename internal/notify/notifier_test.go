package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	staff    []int64
	patrons  []int64
	inserted []struct {
		userID  int64
		message string
		typeID  int
	}
	failFor map[int64]error
}

func (f *fakeStore) Insert(_ context.Context, userID int64, message string, typeID int) error {
	if err, ok := f.failFor[userID]; ok {
		return err
	}
	f.inserted = append(f.inserted, struct {
		userID  int64
		message string
		typeID  int
	}{userID, message, typeID})
	return nil
}

func (f *fakeStore) StaffUserIDs(context.Context) ([]int64, error)  { return f.staff, nil }
func (f *fakeStore) PatronUserIDs(context.Context) ([]int64, error) { return f.patrons, nil }

func Test_Outbox_NothingWrittenBeforeFlush(t *testing.T) {
	fs := &fakeStore{}
	o := NewOutbox()

	o.User(7, "your book is due soon", TypeDueDateReminder)
	o.Librarians("a reservation was made", TypeReservationMade)

	assert.Equal(t, 2, o.Len())
	assert.Empty(t, fs.inserted)
}

func Test_Flush_ExpandsTargets(t *testing.T) {
	fs := &fakeStore{staff: []int64{1, 2}, patrons: []int64{10, 11, 12}}
	n := &Notifier{store: fs}

	o := NewOutbox()
	o.User(10, "book borrowed", TypeBookBorrowed)
	o.Librarians("new book added", TypeNewBookAdded)
	o.Broadcast("new book added", TypeNewBookAdded)

	n.Flush(context.Background(), o)

	// 1 (user) + 2 (staff) + 3 (patrons)
	require.Len(t, fs.inserted, 6)
	assert.Equal(t, int64(10), fs.inserted[0].userID)
	assert.Equal(t, TypeBookBorrowed, fs.inserted[0].typeID)

	var staffIDs, patronIDs []int64
	for _, row := range fs.inserted[1:3] {
		staffIDs = append(staffIDs, row.userID)
	}
	for _, row := range fs.inserted[3:] {
		patronIDs = append(patronIDs, row.userID)
	}
	assert.ElementsMatch(t, []int64{1, 2}, staffIDs)
	assert.ElementsMatch(t, []int64{10, 11, 12}, patronIDs)

	// Flush後は空
	assert.Equal(t, 0, o.Len())
}

func Test_Flush_InsertFailureDoesNotStopOthers(t *testing.T) {
	fs := &fakeStore{
		staff:   []int64{1, 2, 3},
		failFor: map[int64]error{2: errors.New("insert failed")},
	}
	n := &Notifier{store: fs}

	o := NewOutbox()
	o.Librarians("overdue sweep", TypeOverdueNotice)

	n.Flush(context.Background(), o)

	require.Len(t, fs.inserted, 2)
	assert.Equal(t, int64(1), fs.inserted[0].userID)
	assert.Equal(t, int64(3), fs.inserted[1].userID)
}

func Test_Flush_NilOutboxIsNoop(t *testing.T) {
	fs := &fakeStore{}
	n := &Notifier{store: fs}

	n.Flush(context.Background(), nil)
	assert.Empty(t, fs.inserted)
	assert.Equal(t, 0, (*Outbox)(nil).Len())
}
