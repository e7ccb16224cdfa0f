package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/db"
)

const (
	transactionIDConstraint = "bookings_transaction_id_key"
	attemptIDConstraint     = "bookings_attempt_id_key"
)

var (
	ErrDuplicateTransactionID = errors.New("booking: transaction id already used")
	ErrAlreadyPersisted       = errors.New("booking: attempt already persisted")
)

type Repository interface {
	Insert(ctx context.Context, b *Booking) error
	FindByAttempt(ctx context.Context, attemptID string) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
}

type PostgresRepository struct {
	db db.SQLExecutor
}

func NewPostgresRepository(executor db.SQLExecutor) *PostgresRepository {
	return &PostgresRepository{db: executor}
}

const insertBooking = `INSERT INTO bookings (
	id, transaction_id, attempt_id, gds_order_id,
	user_id, user_name, user_email, itineraries,
	price_currency, price_total, price_base, is_paid,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, '')::numeric, $12, $13, $14)`

const selectBooking = `SELECT
	id, transaction_id, attempt_id, gds_order_id,
	user_id, user_name, user_email, itineraries,
	price_currency, price_total::text, COALESCE(price_base::text, ''), is_paid,
	created_at, updated_at
FROM bookings`

func (r *PostgresRepository) Insert(ctx context.Context, b *Booking) error {
	itineraries, err := json.Marshal(b.Itineraries)
	if err != nil {
		return fmt.Errorf("booking: marshal itineraries: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertBooking,
		b.ID, b.TransactionID, b.AttemptID, b.GDSOrderID,
		b.User.ID, b.User.Name, b.User.Email, itineraries,
		b.Price.Currency, b.Price.Total, b.Price.Base, b.IsPaid,
		b.CreatedAt, b.UpdatedAt,
	)
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err, transactionIDConstraint):
		return fmt.Errorf("%w: %s", ErrDuplicateTransactionID, b.TransactionID)
	case db.IsUniqueViolation(err, attemptIDConstraint):
		return fmt.Errorf("%w: %s", ErrAlreadyPersisted, b.AttemptID)
	default:
		return fmt.Errorf("booking: insert %s: %w", b.TransactionID, err)
	}
}

func (r *PostgresRepository) FindByAttempt(ctx context.Context, attemptID string) (*Booking, error) {
	row := r.db.QueryRowContext(ctx, selectBooking+` WHERE attempt_id = $1`, attemptID)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("booking: find by attempt %s: %w", attemptID, err)
	}
	return b, nil
}

// ListByUser returns the user's bookings, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	rows, err := r.db.QueryContext(ctx, selectBooking+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("booking: list for user %s: %w", userID, err)
	}
	defer rows.Close()

	bookings := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan row: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: list for user %s: %w", userID, err)
	}
	return bookings, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner) (*Booking, error) {
	var (
		b           Booking
		itineraries []byte
	)
	err := s.Scan(
		&b.ID, &b.TransactionID, &b.AttemptID, &b.GDSOrderID,
		&b.User.ID, &b.User.Name, &b.User.Email, &itineraries,
		&b.Price.Currency, &b.Price.Total, &b.Price.Base, &b.IsPaid,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itineraries, &b.Itineraries); err != nil {
		return nil, fmt.Errorf("decode itineraries: %w", err)
	}
	return &b, nil
}
