package auth

import (
	"context"
	"database/sql"
	"errors"
)

type User struct {
	UserID       int64
	Fname        string
	PasswordHash string
	RoleID       Role
	ContactID    int64
	Email        string
	Phone        string
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *User) error
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) UserStore { return &Store{db: db} }

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
SELECT users.UserID, users.Fname, users.PasswordHash, users.RoleID, users.ContactID, contacts.Email, contacts.Phone
FROM users
JOIN contacts ON users.ContactID = contacts.ContactID
WHERE contacts.Email = ?
LIMIT 1`
	var u User
	err := s.db.QueryRowContext(ctx, q, email).Scan(
		&u.UserID, &u.Fname, &u.PasswordHash, &u.RoleID, &u.ContactID, &u.Email, &u.Phone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	const q = `SELECT COUNT(*) FROM contacts WHERE Email = ?`
	var n int
	if err := s.db.QueryRowContext(ctx, q, email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts contact + user in one tx.
func (s *Store) Create(ctx context.Context, u *User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO contacts (Phone, Email) VALUES (?, ?)`, u.Phone, u.Email)
	if err != nil {
		return err
	}
	contactID, _ := res.LastInsertId()

	res, err = tx.ExecContext(ctx,
		`INSERT INTO users (Fname, PasswordHash, RoleID, ContactID) VALUES (?, ?, ?, ?)`,
		u.Fname, u.PasswordHash, int(u.RoleID), contactID)
	if err != nil {
		return err
	}
	userID, _ := res.LastInsertId()

	u.ContactID = contactID
	u.UserID = userID
	return tx.Commit()
}
