package partners

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/db"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(conn *sql.DB) *Service {
	return &Service{db: conn, store: NewStore(conn)}
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func (s *Service) AddProvider(ctx context.Context, req CreateRequest) (int64, error) {
	dupName, err := s.store.ProviderNameExists(ctx, req.Name)
	if err != nil {
		return 0, err
	}
	if dupName {
		return 0, apierr.ErrConflict("a provider with this name already exists")
	}
	dupEmail, err := s.store.EmailExists(ctx, req.Email)
	if err != nil {
		return 0, err
	}
	if dupEmail {
		return 0, apierr.ErrConflict("a contact with this email already exists")
	}

	var id int64
	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		var err error
		id, err = InsertProviderTx(ctx, tx, req)
		return err
	})
	if err != nil {
		if isDuplicateKey(err) {
			return 0, apierr.ErrConflict("a provider with this name already exists")
		}
		return 0, err
	}
	return id, nil
}

func (s *Service) AddPublisher(ctx context.Context, req CreateRequest) (int64, error) {
	dupName, err := s.store.PublisherNameExists(ctx, req.Name)
	if err != nil {
		return 0, err
	}
	if dupName {
		return 0, apierr.ErrConflict("a publisher with this name already exists")
	}
	dupEmail, err := s.store.EmailExists(ctx, req.Email)
	if err != nil {
		return 0, err
	}
	if dupEmail {
		return 0, apierr.ErrConflict("a contact with this email already exists")
	}

	var id int64
	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		var err error
		id, err = InsertPublisherTx(ctx, tx, req)
		return err
	})
	if err != nil {
		if isDuplicateKey(err) {
			return 0, apierr.ErrConflict("a publisher with this name already exists")
		}
		return 0, err
	}
	return id, nil
}

func (s *Service) ListProviders(ctx context.Context) ([]Provider, error) {
	return s.store.ListProviders(ctx)
}

func (s *Service) ListPublishers(ctx context.Context) ([]Publisher, error) {
	return s.store.ListPublishers(ctx)
}
