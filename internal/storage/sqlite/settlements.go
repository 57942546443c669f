package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/famiglia/internal/models"
	"github.com/mmynk/famiglia/internal/storage"
)

const paymentColumns = "id, group_id, member_id, expense_id, month, year, amount_paid, is_confirmed, confirmed_at, created_at"

// ListPayments returns the member settlement payments of a month in the order they were recorded.
func (s *SQLiteStore) ListPayments(ctx context.Context, groupID string, month, year int) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+paymentColumns+` FROM payments
		 WHERE group_id = ? AND month = ? AND year = ?
		 ORDER BY created_at, rowid`,
		groupID, month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// GetPayment retrieves a settlement payment of the group.
func (s *SQLiteStore) GetPayment(ctx context.Context, groupID, paymentID string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE group_id = ? AND id = ?",
		groupID, paymentID,
	)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// CreatePayment persists a new settlement payment.
func (s *SQLiteStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	if p.IsConfirmed && p.ConfirmedAt == 0 {
		p.ConfirmedAt = p.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payments ("+paymentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.GroupID, p.MemberID, nullString(p.ExpenseID), p.Month, p.Year, p.AmountPaid,
		p.IsConfirmed, nullTime(p.ConfirmedAt), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// SetPaymentConfirmed sets or clears the manual confirmation of a payment.
func (s *SQLiteStore) SetPaymentConfirmed(ctx context.Context, groupID, paymentID string, confirmed bool, at int64) error {
	confirmedAt := sql.NullInt64{}
	if confirmed {
		confirmedAt = nullTime(at)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE payments SET is_confirmed = ?, confirmed_at = ? WHERE group_id = ? AND id = ?",
		confirmed, confirmedAt, groupID, paymentID,
	)
	if err != nil {
		return fmt.Errorf("failed to confirm payment: %w", err)
	}
	return requireAffected(res, "payment", paymentID)
}

// DeletePayment deletes a settlement payment.
func (s *SQLiteStore) DeletePayment(ctx context.Context, groupID, paymentID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM payments WHERE group_id = ? AND id = ?",
		groupID, paymentID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return requireAffected(res, "payment", paymentID)
}

func scanPayment(row scanner) (*models.Payment, error) {
	p := &models.Payment{}
	var expenseID sql.NullString
	var confirmedAt sql.NullInt64
	err := row.Scan(
		&p.ID, &p.GroupID, &p.MemberID, &expenseID, &p.Month, &p.Year, &p.AmountPaid,
		&p.IsConfirmed, &confirmedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ExpenseID = expenseID.String
	p.ConfirmedAt = confirmedAt.Int64
	return p, nil
}
