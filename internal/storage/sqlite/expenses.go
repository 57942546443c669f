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

const recurringColumns = `id, group_id, category_id, name, amount, frequency_type, frequency_value,
	day_of_month, is_active, start_month, start_year, end_month, end_year, created_at, updated_at`

// ListRecurringExpenses returns every recurring expense of the group, active or not.
func (s *SQLiteStore) ListRecurringExpenses(ctx context.Context, groupID string) ([]*models.RecurringExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recurringColumns+" FROM recurring_expenses WHERE group_id = ? ORDER BY created_at, rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.RecurringExpense
	for rows.Next() {
		e, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recurring expenses: %w", err)
	}
	return expenses, nil
}

// GetRecurringExpense retrieves a recurring expense of the group.
func (s *SQLiteStore) GetRecurringExpense(ctx context.Context, groupID, expenseID string) (*models.RecurringExpense, error) {
	return getRecurring(ctx, s.db, groupID, expenseID)
}

// CreateRecurringExpense persists a new recurring expense.
func (s *SQLiteStore) CreateRecurringExpense(ctx context.Context, e *models.RecurringExpense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	e.UpdatedAt = e.CreatedAt

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO recurring_expenses ("+recurringColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.GroupID, nullString(e.CategoryID), e.Name, e.Amount, string(e.FrequencyType), e.FrequencyValue,
		nullInt(e.DayOfMonth), e.IsActive, nullInt(e.StartMonth), nullInt(e.StartYear),
		nullInt(e.EndMonth), nullInt(e.EndYear), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recurring expense: %w", err)
	}
	return nil
}

// UpdateRecurringExpense replaces the mutable fields of a recurring expense.
func (s *SQLiteStore) UpdateRecurringExpense(ctx context.Context, e *models.RecurringExpense) error {
	e.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx,
		`UPDATE recurring_expenses SET
			category_id = ?, name = ?, amount = ?, frequency_type = ?, frequency_value = ?,
			day_of_month = ?, is_active = ?, start_month = ?, start_year = ?, end_month = ?, end_year = ?,
			updated_at = ?
		 WHERE group_id = ? AND id = ?`,
		nullString(e.CategoryID), e.Name, e.Amount, string(e.FrequencyType), e.FrequencyValue,
		nullInt(e.DayOfMonth), e.IsActive, nullInt(e.StartMonth), nullInt(e.StartYear),
		nullInt(e.EndMonth), nullInt(e.EndYear), e.UpdatedAt,
		e.GroupID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurring expense: %w", err)
	}
	return requireAffected(res, "recurring expense", e.ID)
}

// DeleteRecurringExpense deletes a recurring expense.
// Its expense payments cascade; their mirrored one-time expenses are kept, unlinked.
func (s *SQLiteStore) DeleteRecurringExpense(ctx context.Context, groupID, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM recurring_expenses WHERE group_id = ? AND id = ?",
		groupID, expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete recurring expense: %w", err)
	}
	return requireAffected(res, "recurring expense", expenseID)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getRecurring(ctx context.Context, q rowQuerier, groupID, expenseID string) (*models.RecurringExpense, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+recurringColumns+" FROM recurring_expenses WHERE group_id = ? AND id = ?",
		groupID, expenseID,
	)
	e, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recurring expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring expense: %w", err)
	}
	return e, nil
}

func scanRecurring(row scanner) (*models.RecurringExpense, error) {
	e := &models.RecurringExpense{}
	var categoryID sql.NullString
	var frequency string
	var dayOfMonth, startMonth, startYear, endMonth, endYear sql.NullInt64
	err := row.Scan(
		&e.ID, &e.GroupID, &categoryID, &e.Name, &e.Amount, &frequency, &e.FrequencyValue,
		&dayOfMonth, &e.IsActive, &startMonth, &startYear, &endMonth, &endYear,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.CategoryID = categoryID.String
	e.FrequencyType = models.FrequencyType(frequency)
	e.DayOfMonth = intPtr(dayOfMonth)
	e.StartMonth = intPtr(startMonth)
	e.StartYear = intPtr(startYear)
	e.EndMonth = intPtr(endMonth)
	e.EndYear = intPtr(endYear)
	return e, nil
}

const oneTimeColumns = `id, group_id, expense_id, expense_payment_id, category_id, name, amount,
	date, month, year, is_paid, receipt_text, created_at`

// ListOneTimeExpenses returns the one-time expenses of a month, newest first.
func (s *SQLiteStore) ListOneTimeExpenses(ctx context.Context, groupID string, month, year int) ([]*models.OneTimeExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+oneTimeColumns+` FROM one_time_expenses
		 WHERE group_id = ? AND month = ? AND year = ?
		 ORDER BY date DESC, rowid DESC`,
		groupID, month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list one-time expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.OneTimeExpense
	for rows.Next() {
		e, err := scanOneTime(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan one-time expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate one-time expenses: %w", err)
	}
	return expenses, nil
}

// GetOneTimeExpense retrieves a one-time expense of the group.
func (s *SQLiteStore) GetOneTimeExpense(ctx context.Context, groupID, expenseID string) (*models.OneTimeExpense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+oneTimeColumns+" FROM one_time_expenses WHERE group_id = ? AND id = ?",
		groupID, expenseID,
	)
	e, err := scanOneTime(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("one-time expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get one-time expense: %w", err)
	}
	return e, nil
}

// CreateOneTimeExpense persists a new one-time expense.
func (s *SQLiteStore) CreateOneTimeExpense(ctx context.Context, e *models.OneTimeExpense) error {
	return insertOneTime(ctx, s.db, e)
}

// UpdateOneTimeExpense replaces the user-editable fields of a one-time expense.
// Links to recurring expenses and payments are left untouched.
func (s *SQLiteStore) UpdateOneTimeExpense(ctx context.Context, e *models.OneTimeExpense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE one_time_expenses SET
			category_id = ?, name = ?, amount = ?, date = ?, month = ?, year = ?, is_paid = ?
		 WHERE group_id = ? AND id = ?`,
		nullString(e.CategoryID), e.Name, e.Amount, e.Date, e.Month, e.Year, e.IsPaid,
		e.GroupID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update one-time expense: %w", err)
	}
	return requireAffected(res, "one-time expense", e.ID)
}

// DeleteOneTimeExpense deletes a one-time expense.
func (s *SQLiteStore) DeleteOneTimeExpense(ctx context.Context, groupID, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM one_time_expenses WHERE group_id = ? AND id = ?",
		groupID, expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete one-time expense: %w", err)
	}
	return requireAffected(res, "one-time expense", expenseID)
}

// SetReceiptText stores the text extracted from a receipt. A nil text clears it.
func (s *SQLiteStore) SetReceiptText(ctx context.Context, groupID, expenseID string, text *string) error {
	var value sql.NullString
	if text != nil {
		value = sql.NullString{String: *text, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE one_time_expenses SET receipt_text = ? WHERE group_id = ? AND id = ?",
		value, groupID, expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to set receipt text: %w", err)
	}
	return requireAffected(res, "one-time expense", expenseID)
}

func insertOneTime(ctx context.Context, tx execer, e *models.OneTimeExpense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}

	var receipt sql.NullString
	if e.ReceiptText != nil {
		receipt = sql.NullString{String: *e.ReceiptText, Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		"INSERT INTO one_time_expenses ("+oneTimeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.GroupID, nullString(e.ExpenseID), nullString(e.ExpensePaymentID), nullString(e.CategoryID),
		e.Name, e.Amount, e.Date, e.Month, e.Year, e.IsPaid, receipt, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert one-time expense: %w", err)
	}
	return nil
}

func scanOneTime(row scanner) (*models.OneTimeExpense, error) {
	e := &models.OneTimeExpense{}
	var expenseID, paymentID, categoryID, receipt sql.NullString
	err := row.Scan(
		&e.ID, &e.GroupID, &expenseID, &paymentID, &categoryID, &e.Name, &e.Amount,
		&e.Date, &e.Month, &e.Year, &e.IsPaid, &receipt, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.ExpenseID = expenseID.String
	e.ExpensePaymentID = paymentID.String
	e.CategoryID = categoryID.String
	e.ReceiptText = stringPtr(receipt)
	return e, nil
}
