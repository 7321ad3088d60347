package payment

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Payment, error)
	UpdatePayment(ctx context.Context, p *Payment) error
	SaveNotification(ctx context.Context, n *Notification) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Payment, error) {
	const q = `
	SELECT id, order_id, amount, currency, status, amount_paid, paid_on,
		external_id, backend, description, created_at, updated_at
	FROM payments
	WHERE id = $1;
	`

	var (
		p        Payment
		paidOn   sql.NullTime
		extID    sql.NullString
		desc     sql.NullString
		statusDB string
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.OrderID, &p.Amount, &p.Currency, &statusDB, &p.AmountPaid, &paidOn,
		&extID, &p.Backend, &desc, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	p.Status = Status(statusDB)
	p.ExternalID = extID.String
	p.Description = desc.String
	if paidOn.Valid {
		t := paidOn.Time
		p.PaidOn = &t
	}
	return &p, nil
}

// UpdatePayment persists the fields the reconciler is allowed to change.
func (r *repository) UpdatePayment(ctx context.Context, p *Payment) error {
	const q = `
	UPDATE payments
	SET status = $1,
		amount_paid = $2,
		paid_on = $3,
		external_id = $4,
		updated_at = now()
	WHERE id = $5;
	`

	var paidOn sql.NullTime
	if p.PaidOn != nil {
		paidOn = sql.NullTime{Time: *p.PaidOn, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, q, string(p.Status), p.AmountPaid, paidOn, p.ExternalID, p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *repository) SaveNotification(ctx context.Context, n *Notification) (int64, error) {
	const q = `
	INSERT INTO payment_notifications (
		provider,
		session_id,
		order_id,
		amount,
		currency,
		signature_valid,
		outcome,
		received_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id;
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		q,
		n.Provider,
		n.SessionID,
		n.OrderID,
		n.Amount,
		n.Currency,
		n.SignatureValid,
		n.Outcome,
		n.ReceivedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
