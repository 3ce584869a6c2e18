package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	mysql "github.com/go-sql-driver/mysql"

	"libris-backend/internal/notify"
	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/db"
)

type Service struct {
	db       *sql.DB
	store    *Store
	notifier *notify.Notifier
}

func NewService(conn *sql.DB, notifier *notify.Notifier) *Service {
	return &Service{db: conn, store: NewStore(conn), notifier: notifier}
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func isFKViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && (me.Number == 1451 || me.Number == 1452)
}

// AddBook registers a book with author/genre resolution and initial copies.
// 通知は COMMIT 後に Outbox からまとめて送る。
func (s *Service) AddBook(ctx context.Context, req AddBookRequest) (*AddBookResponse, error) {
	if err := validateBookInput(bookInput{
		Title:           req.Title,
		Author:          req.Author,
		Genres:          req.Genres,
		ISBN:            req.ISBN,
		PublicationDate: req.PublicationDate,
		ProviderID:      req.ProviderID,
	}); err != nil {
		return nil, err
	}
	if req.Copies < 0 {
		return nil, apierr.ErrInvalid("copies must be >= 0")
	}

	pubDate, _ := time.Parse(dateLayout, req.PublicationDate)

	var (
		book          Book
		authorCreated bool
	)
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		authorID, created, err := ResolveAuthorTx(ctx, tx, req.Author)
		if err != nil {
			return err
		}
		authorCreated = created

		book = Book{
			Title:           req.Title,
			AuthorID:        authorID,
			ISBN:            req.ISBN,
			PublicationDate: pubDate,
			ProviderID:      req.ProviderID,
			PublisherID:     toNullInt64(req.PublisherID),
			Description:     toNullString(req.Description),
		}
		if err := InsertBookTx(ctx, tx, &book); err != nil {
			return err
		}
		if err := ReplaceGenresTx(ctx, tx, book.BookID, req.Genres); err != nil {
			return err
		}
		if req.Copies > 0 {
			numbers := make([]int, 0, req.Copies)
			for n := 1; n <= req.Copies; n++ {
				numbers = append(numbers, n)
			}
			if err := AddCopiesTx(ctx, tx, book.BookID, numbers); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isFKViolation(err) {
			return nil, apierr.ErrConflict("unknown provider or publisher reference")
		}
		return nil, err
	}

	ob := notify.NewOutbox()
	msg := fmt.Sprintf("A new book '%s' has been added to the library.", req.Title)
	ob.Librarians(msg, notify.TypeNewBookAdded)
	ob.Broadcast(msg, notify.TypeNewBookAdded)
	if authorCreated {
		ob.Librarians(fmt.Sprintf("A new author '%s' has been added.", req.Author), notify.TypeNewAuthorAdded)
	}
	if req.Copies > 0 {
		ob.Librarians(fmt.Sprintf("%d new copies of '%s' have been added.", req.Copies, req.Title), notify.TypeNewCopyAdded)
	}
	s.notifier.Flush(ctx, ob)

	return &AddBookResponse{BookID: book.BookID}, nil
}

// UpdateBook updates the row in place and reconciles the copy count.
// 縮小で貸出中のコピーが絡む外部キー違反は Conflict として返す。
func (s *Service) UpdateBook(ctx context.Context, req UpdateBookRequest) (*UpdateBookResponse, error) {
	if req.BookID <= 0 {
		return nil, apierr.ErrInvalid("book_id is required")
	}
	if err := validateBookInput(bookInput{
		Title:           req.Title,
		Author:          req.Author,
		Genres:          req.Genres,
		ISBN:            req.ISBN,
		PublicationDate: req.PublicationDate,
		ProviderID:      req.ProviderID,
	}); err != nil {
		return nil, err
	}
	if req.Copies != nil && *req.Copies < 0 {
		return nil, apierr.ErrInvalid("copies must be >= 0")
	}

	pubDate, _ := time.Parse(dateLayout, req.PublicationDate)

	var plan copyPlan
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		authorID, _, err := ResolveAuthorTx(ctx, tx, req.Author)
		if err != nil {
			return err
		}

		book := Book{
			BookID:          req.BookID,
			Title:           req.Title,
			AuthorID:        authorID,
			ISBN:            req.ISBN,
			PublicationDate: pubDate,
			ProviderID:      req.ProviderID,
			PublisherID:     toNullInt64(req.PublisherID),
			Description:     toNullString(req.Description),
		}
		if err := UpdateBookTx(ctx, tx, &book); err != nil {
			return err
		}
		if err := ReplaceGenresTx(ctx, tx, req.BookID, req.Genres); err != nil {
			return err
		}

		if req.Copies != nil {
			current, err := ListCopiesForUpdateTx(ctx, tx, req.BookID)
			if err != nil {
				return err
			}
			plan = planCopyChange(current, *req.Copies)
			if err := AddCopiesTx(ctx, tx, req.BookID, plan.AddNumbers); err != nil {
				return err
			}
			if err := RetireCopiesTx(ctx, tx, plan.RetireIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isFKViolation(err) {
			return nil, apierr.ErrConflict("cannot update: copies are on loan")
		}
		return nil, err
	}

	ob := notify.NewOutbox()
	ob.Librarians(fmt.Sprintf("The book '%s' has been updated.", req.Title), notify.TypeBookUpdated)
	s.notifier.Flush(ctx, ob)

	return &UpdateBookResponse{
		BookID:        req.BookID,
		CopiesRetired: len(plan.RetireIDs),
		CopiesAdded:   len(plan.AddNumbers),
	}, nil
}

func (s *Service) ListBooks(ctx context.Context) ([]BookSummary, error) {
	return s.store.ListBooks(ctx)
}

func (s *Service) ListGenres(ctx context.Context) ([]Genre, error) {
	return s.store.ListGenres(ctx)
}

func (s *Service) AddGenre(ctx context.Context, name string) (int64, error) {
	exists, err := s.store.GenreExists(ctx, name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, apierr.ErrConflict("genre already exists")
	}
	id, err := s.store.InsertGenre(ctx, name)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, apierr.ErrConflict("genre already exists")
		}
		return 0, err
	}
	return id, nil
}

func (s *Service) ListAuthors(ctx context.Context) ([]Author, error) {
	return s.store.ListAuthors(ctx)
}

func (s *Service) AddAuthor(ctx context.Context, name string) (int64, error) {
	exists, err := s.store.AuthorExists(ctx, name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, apierr.ErrConflict("author already exists")
	}
	id, err := s.store.InsertAuthor(ctx, name)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, apierr.ErrConflict("author already exists")
		}
		return 0, err
	}

	ob := notify.NewOutbox()
	ob.Librarians(fmt.Sprintf("A new author '%s' has been added.", name), notify.TypeNewAuthorAdded)
	s.notifier.Flush(ctx, ob)
	return id, nil
}

func (s *Service) ListStatuses(ctx context.Context) ([]Status, error) {
	return s.store.ListStatuses(ctx)
}

func toNullInt64(p *int64) sql.NullInt64 {
	if p == nil || *p <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func toNullString(p *string) sql.NullString {
	if p == nil || *p == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
