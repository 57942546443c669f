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

const expensePaymentColumns = "id, group_id, expense_id, month, year, amount, paid_at"

// ListExpensePayments returns the recurring-expense payments of a month.
func (s *SQLiteStore) ListExpensePayments(ctx context.Context, groupID string, month, year int) ([]*models.ExpensePayment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expensePaymentColumns+` FROM expense_payments
		 WHERE group_id = ? AND month = ? AND year = ?
		 ORDER BY paid_at, rowid`,
		groupID, month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.ExpensePayment
	for rows.Next() {
		p := &models.ExpensePayment{}
		if err := rows.Scan(&p.ID, &p.GroupID, &p.ExpenseID, &p.Month, &p.Year, &p.Amount, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense payments: %w", err)
	}
	return payments, nil
}

// RecordExpensePayment records that a recurring expense was paid for (month, year).
//
// A second call for the same month updates the existing payment and its mirror instead of
// creating duplicates. A mirror that was deleted by hand is re-created.
func (s *SQLiteStore) RecordExpensePayment(ctx context.Context, groupID, expenseID string, month, year int, amount float64) (*storage.RecordResult, error) {
	var result *storage.RecordResult

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		expense, err := getRecurring(ctx, tx, groupID, expenseID)
		if err != nil {
			return err
		}

		now := time.Now().Unix()
		payment, err := getExpensePaymentFor(ctx, tx, expenseID, month, year)
		updated := err == nil
		switch {
		case errors.Is(err, storage.ErrNotFound):
			payment = &models.ExpensePayment{
				ID:        uuid.New().String(),
				GroupID:   groupID,
				ExpenseID: expenseID,
				Month:     month,
				Year:      year,
				Amount:    amount,
				PaidAt:    now,
			}
			_, err = tx.ExecContext(ctx,
				"INSERT INTO expense_payments ("+expensePaymentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
				payment.ID, payment.GroupID, payment.ExpenseID, payment.Month, payment.Year, payment.Amount, payment.PaidAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense payment: %w", err)
			}
		case err != nil:
			return err
		default:
			payment.Amount = amount
			payment.PaidAt = now
			_, err = tx.ExecContext(ctx,
				"UPDATE expense_payments SET amount = ?, paid_at = ? WHERE id = ?",
				payment.Amount, payment.PaidAt, payment.ID,
			)
			if err != nil {
				return fmt.Errorf("failed to update expense payment: %w", err)
			}
		}

		mirror, err := upsertMirror(ctx, tx, expense, payment, now)
		if err != nil {
			return err
		}

		result = &storage.RecordResult{Payment: payment, Mirror: mirror, Updated: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteExpensePayment deletes a recurring-expense payment together with its mirror.
func (s *SQLiteStore) DeleteExpensePayment(ctx context.Context, groupID, paymentID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM one_time_expenses WHERE group_id = ? AND expense_payment_id = ?",
			groupID, paymentID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete payment mirror: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			"DELETE FROM expense_payments WHERE group_id = ? AND id = ?",
			groupID, paymentID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete expense payment: %w", err)
		}
		return requireAffected(res, "expense payment", paymentID)
	})
}

func getExpensePaymentFor(ctx context.Context, tx *sql.Tx, expenseID string, month, year int) (*models.ExpensePayment, error) {
	p := &models.ExpensePayment{}
	err := tx.QueryRowContext(ctx,
		"SELECT "+expensePaymentColumns+" FROM expense_payments WHERE expense_id = ? AND month = ? AND year = ?",
		expenseID, month, year,
	).Scan(&p.ID, &p.GroupID, &p.ExpenseID, &p.Month, &p.Year, &p.Amount, &p.PaidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense payment for %s %d/%d: %w", expenseID, month, year, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense payment: %w", err)
	}
	return p, nil
}

// upsertMirror keeps exactly one paid one-time expense per expense payment.
func upsertMirror(ctx context.Context, tx *sql.Tx, expense *models.RecurringExpense, payment *models.ExpensePayment, now int64) (*models.OneTimeExpense, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+oneTimeColumns+" FROM one_time_expenses WHERE expense_payment_id = ?",
		payment.ID,
	)
	mirror, err := scanOneTime(row)
	if err == nil {
		mirror.Amount = payment.Amount
		mirror.IsPaid = true
		_, err = tx.ExecContext(ctx,
			"UPDATE one_time_expenses SET amount = ?, is_paid = 1 WHERE id = ?",
			mirror.Amount, mirror.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update payment mirror: %w", err)
		}
		return mirror, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get payment mirror: %w", err)
	}

	mirror = &models.OneTimeExpense{
		GroupID:          payment.GroupID,
		ExpenseID:        expense.ID,
		ExpensePaymentID: payment.ID,
		CategoryID:       expense.CategoryID,
		Name:             expense.Name,
		Amount:           payment.Amount,
		Date:             now,
		Month:            payment.Month,
		Year:             payment.Year,
		IsPaid:           true,
		CreatedAt:        now,
	}
	if err := insertOneTime(ctx, tx, mirror); err != nil {
		return nil, err
	}
	return mirror, nil
}
