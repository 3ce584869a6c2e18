package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"libris-backend/internal/platform/apierr"
)

type Service struct {
	store  UserStore
	secret []byte
}

func NewService(db *sql.DB, secret []byte) *Service {
	return &Service{store: NewStore(db), secret: secret}
}

type LoginResult struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apierr.ErrInvalid("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apierr.ErrInvalid("invalid email or password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  u.UserID,
		"role": int(u.RoleID),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:  signed,
		UserID: u.UserID,
		Name:   u.Fname,
		Role:   u.RoleID.String(),
	}, nil
}

func (s *Service) Register(ctx context.Context, name, email, phone, password string, role Role) (int64, error) {
	if !role.Valid() {
		return 0, apierr.ErrInvalid("invalid role_id")
	}

	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, apierr.ErrConflict("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	u := &User{
		Fname:        name,
		PasswordHash: string(hash),
		RoleID:       role,
		Email:        email,
		Phone:        phone,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return 0, err
	}
	return u.UserID, nil
}
