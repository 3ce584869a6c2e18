package notify

import (
	"context"
	"database/sql"
)

type Service struct {
	store *Store
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Notification, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.store.UnreadCount(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, notificationID int64) error {
	return s.store.MarkRead(ctx, notificationID)
}
