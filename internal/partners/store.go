package partners

import (
	"context"
	"database/sql"

	"libris-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE Email = ?`, email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) ProviderNameExists(ctx context.Context, name string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM book_providers WHERE ProviderName = ?`, name).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) PublisherNameExists(ctx context.Context, name string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM publisher WHERE PublisherName = ?`, name).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// insertContactAndAddressTx: contacts と addresses を登録して両IDを返す
func insertContactAndAddressTx(ctx context.Context, tx db.DBTX, req CreateRequest) (contactID, addressID int64, err error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO contacts (Phone, Email) VALUES (?, ?)`, req.Phone, req.Email)
	if err != nil {
		return 0, 0, err
	}
	contactID, _ = res.LastInsertId()

	res, err = tx.ExecContext(ctx,
		`INSERT INTO addresses (Street, City, State, Country, PostalCode) VALUES (?, ?, ?, ?, ?)`,
		req.Street, req.City, req.State, req.Country, req.PostalCode)
	if err != nil {
		return 0, 0, err
	}
	addressID, _ = res.LastInsertId()
	return contactID, addressID, nil
}

func InsertProviderTx(ctx context.Context, tx db.DBTX, req CreateRequest) (int64, error) {
	contactID, addressID, err := insertContactAndAddressTx(ctx, tx, req)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO book_providers (ProviderName, ContactID, AddressID) VALUES (?, ?, ?)`,
		req.Name, contactID, addressID)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func InsertPublisherTx(ctx context.Context, tx db.DBTX, req CreateRequest) (int64, error) {
	contactID, addressID, err := insertContactAndAddressTx(ctx, tx, req)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO publisher (PublisherName, ContactID, AddressID) VALUES (?, ?, ?)`,
		req.Name, contactID, addressID)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (s *Store) ListProviders(ctx context.Context) ([]Provider, error) {
	const q = `
	SELECT
		bp.ProviderID, bp.ProviderName,
		c.Phone, c.Email,
		a.Street, a.City, a.State, a.Country, a.PostalCode
	FROM book_providers bp
	INNER JOIN contacts c ON bp.ContactID = c.ContactID
	INNER JOIN addresses a ON bp.AddressID = a.AddressID
	ORDER BY bp.ProviderName ASC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Provider, 0, 16)
	for rows.Next() {
		var p Provider
		if err := rows.Scan(
			&p.ProviderID, &p.ProviderName, &p.Phone, &p.Email,
			&p.Street, &p.City, &p.State, &p.Country, &p.PostalCode,
		); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (s *Store) ListPublishers(ctx context.Context) ([]Publisher, error) {
	const q = `
	SELECT
		p.PublisherID, p.PublisherName,
		c.Phone, c.Email,
		a.Street, a.City, a.State, a.Country, a.PostalCode
	FROM publisher p
	INNER JOIN contacts c ON p.ContactID = c.ContactID
	INNER JOIN addresses a ON p.AddressID = a.AddressID
	ORDER BY p.PublisherName ASC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Publisher, 0, 16)
	for rows.Next() {
		var p Publisher
		if err := rows.Scan(
			&p.PublisherID, &p.PublisherName, &p.Phone, &p.Email,
			&p.Street, &p.City, &p.State, &p.Country, &p.PostalCode,
		); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
