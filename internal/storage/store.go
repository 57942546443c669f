// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/famiglia/internal/calculator"
	"github.com/mmynk/famiglia/internal/models"
)

var (
	// ErrNotFound is returned when a row does not exist, or exists in another group.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique key (such as a user's email) is already taken.
	ErrDuplicate = errors.New("already exists")

	// ErrQuotaCeilingExceeded is returned when a member write would push the group's
	// quota sum past calculator.QuotaCeiling.
	ErrQuotaCeilingExceeded = calculator.ErrQuotaCeilingExceeded
)

// RecordResult is the outcome of an idempotent recurring-expense payment.
type RecordResult struct {
	Payment *models.ExpensePayment
	Mirror  *models.OneTimeExpense

	// Updated is true when a payment for the same expense and month already existed.
	Updated bool
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Every group-scoped lookup takes the group id and returns ErrNotFound for rows
// belonging to another group.
type Store interface {
	UserStore
	GroupStore
	CategoryStore
	ExpenseStore
	PaymentStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore holds registered accounts.
type UserStore interface {
	// CreateUser returns ErrDuplicate when the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// GroupStore holds groups and their members.
type GroupStore interface {
	// CreateGroup persists the group together with its owner's member row.
	CreateGroup(ctx context.Context, group *models.Group, owner *models.Member) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	// ListGroupsForUser returns the groups in which userID has a member row.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)
	DeleteGroup(ctx context.Context, groupID string) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	ListMembers(ctx context.Context, groupID string) ([]*models.Member, error)
	GetMember(ctx context.Context, groupID, memberID string) (*models.Member, error)
	// AddMember and UpdateMember check the quota ceiling against the other members
	// inside the same transaction as the write.
	AddMember(ctx context.Context, member *models.Member) error
	UpdateMember(ctx context.Context, member *models.Member) error
	RemoveMember(ctx context.Context, groupID, memberID string) error
}

// CategoryStore holds expense categories.
type CategoryStore interface {
	ListCategories(ctx context.Context, groupID string) ([]*models.Category, error)
	// SeedDefaultCategories inserts models.DefaultCategories when the group has no
	// categories yet, and returns the group's categories either way.
	SeedDefaultCategories(ctx context.Context, groupID string) ([]*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, groupID, categoryID string) error
}

// ExpenseStore holds recurring and one-time expenses.
type ExpenseStore interface {
	ListRecurringExpenses(ctx context.Context, groupID string) ([]*models.RecurringExpense, error)
	GetRecurringExpense(ctx context.Context, groupID, expenseID string) (*models.RecurringExpense, error)
	CreateRecurringExpense(ctx context.Context, expense *models.RecurringExpense) error
	UpdateRecurringExpense(ctx context.Context, expense *models.RecurringExpense) error
	DeleteRecurringExpense(ctx context.Context, groupID, expenseID string) error

	ListOneTimeExpenses(ctx context.Context, groupID string, month, year int) ([]*models.OneTimeExpense, error)
	GetOneTimeExpense(ctx context.Context, groupID, expenseID string) (*models.OneTimeExpense, error)
	CreateOneTimeExpense(ctx context.Context, expense *models.OneTimeExpense) error
	UpdateOneTimeExpense(ctx context.Context, expense *models.OneTimeExpense) error
	DeleteOneTimeExpense(ctx context.Context, groupID, expenseID string) error
	// SetReceiptText replaces the extracted receipt text; nil clears it.
	SetReceiptText(ctx context.Context, groupID, expenseID string, text *string) error
}

// PaymentStore holds recurring-expense payments and member settlement payments.
type PaymentStore interface {
	ListExpensePayments(ctx context.Context, groupID string, month, year int) ([]*models.ExpensePayment, error)
	// RecordExpensePayment upserts the payment for (expenseID, month, year) and keeps
	// its mirrored one-time expense in sync, in one transaction.
	RecordExpensePayment(ctx context.Context, groupID, expenseID string, month, year int, amount float64) (*RecordResult, error)
	// DeleteExpensePayment removes the payment and its mirrored one-time expense.
	DeleteExpensePayment(ctx context.Context, groupID, paymentID string) error

	ListPayments(ctx context.Context, groupID string, month, year int) ([]*models.Payment, error)
	GetPayment(ctx context.Context, groupID, paymentID string) (*models.Payment, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	// SetPaymentConfirmed sets confirmedAt to at when confirmed, and clears it otherwise.
	SetPaymentConfirmed(ctx context.Context, groupID, paymentID string, confirmed bool, at int64) error
	DeletePayment(ctx context.Context, groupID, paymentID string) error
}
