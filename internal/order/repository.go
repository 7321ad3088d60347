package order

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	GetCustomer(ctx context.Context, orderID uint) (*Customer, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	const q = `
	SELECT id, user_id, total, currency, status, description, created_at
	FROM orders
	WHERE id = $1;
	`

	var (
		o    Order
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, orderID).Scan(
		&o.ID, &o.UserID, &o.Total, &o.Currency, &o.Status, &desc, &o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	o.Description = desc.String
	return &o, nil
}

func (r *repository) GetCustomer(ctx context.Context, orderID uint) (*Customer, error) {
	const q = `
	SELECT u.email, u.full_name, u.language,
		a.street, a.postcode, a.city, a.country, a.phone
	FROM orders o
	JOIN users u ON u.id = o.user_id
	LEFT JOIN addresses a ON a.id = o.address_id
	WHERE o.id = $1;
	`

	var email, name, lang, street, postcode, city, country, phone sql.NullString
	err := r.db.QueryRowContext(ctx, q, orderID).Scan(
		&email, &name, &lang, &street, &postcode, &city, &country, &phone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return &Customer{
		Email:    nullable(email),
		FullName: nullable(name),
		Language: nullable(lang),
		Street:   nullable(street),
		Postcode: nullable(postcode),
		City:     nullable(city),
		Country:  nullable(country),
		Phone:    nullable(phone),
	}, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
