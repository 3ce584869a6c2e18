package notify

import (
	"context"
	"database/sql"
	"log"
)

// inserter is the narrow store surface the notifier needs.
type inserter interface {
	Insert(ctx context.Context, userID int64, message string, typeID int) error
	StaffUserIDs(ctx context.Context) ([]int64, error)
	PatronUserIDs(ctx context.Context) ([]int64, error)
}

// Notifier は業務トランザクションの外側で通知行を書き込む。
// 通知の失敗は呼び出し元の処理を失敗させない（ログのみ）。
type Notifier struct {
	store inserter
}

func NewNotifier(db *sql.DB) *Notifier { return &Notifier{store: NewStore(db)} }

type target int

const (
	targetUser target = iota
	targetStaff
	targetBroadcast
)

type pending struct {
	target  target
	userID  int64
	message string
	typeID  int
}

// Outbox collects notifications during a business operation.
// Nothing is written until Flush, which the caller invokes after COMMIT.
type Outbox struct {
	items []pending
}

func NewOutbox() *Outbox { return &Outbox{} }

// User queues a notification for one recipient.
func (o *Outbox) User(userID int64, message string, typeID int) {
	o.items = append(o.items, pending{target: targetUser, userID: userID, message: message, typeID: typeID})
}

// Librarians queues one notification per staff user (Admin + Librarian).
func (o *Outbox) Librarians(message string, typeID int) {
	o.items = append(o.items, pending{target: targetStaff, message: message, typeID: typeID})
}

// Broadcast queues one notification per non-staff user.
func (o *Outbox) Broadcast(message string, typeID int) {
	o.items = append(o.items, pending{target: targetBroadcast, message: message, typeID: typeID})
}

func (o *Outbox) Len() int {
	if o == nil {
		return 0
	}
	return len(o.items)
}

// Flush expands role targets to recipients and inserts one row each.
// ベストエフォート：失敗してもエラーは返さない。
func (n *Notifier) Flush(ctx context.Context, o *Outbox) {
	if o == nil {
		return
	}
	for _, p := range o.items {
		switch p.target {
		case targetUser:
			if err := n.store.Insert(ctx, p.userID, p.message, p.typeID); err != nil {
				log.Printf("[WARN] notify user %d failed: %v", p.userID, err)
			}
		case targetStaff:
			n.fanOut(ctx, p, n.store.StaffUserIDs)
		case targetBroadcast:
			n.fanOut(ctx, p, n.store.PatronUserIDs)
		}
	}
	o.items = nil
}

func (n *Notifier) fanOut(ctx context.Context, p pending, recipients func(context.Context) ([]int64, error)) {
	ids, err := recipients(ctx)
	if err != nil {
		log.Printf("[WARN] notify fan-out: resolving recipients failed: %v", err)
		return
	}
	for _, id := range ids {
		if err := n.store.Insert(ctx, id, p.message, p.typeID); err != nil {
			log.Printf("[WARN] notify user %d failed: %v", id, err)
		}
	}
}
