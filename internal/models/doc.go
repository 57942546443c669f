// Package models defines the core domain models for Famiglia.
//
// # Models
//
//   - Group: a household sharing expenses, owned by one user
//   - Member: a participant in a group with a quota percentage
//   - Category: a label (name, icon, color) for expenses
//   - RecurringExpense: a bill with a repetition frequency
//   - OneTimeExpense: a single dated expense, optionally mirroring a recurring payment
//   - ExpensePayment: a recurring expense paid in a given month
//   - Payment: a member's settlement payment towards their monthly share
//   - User: a registered account
//
// # Design Principles
//
// 1. **Per-cycle amounts**: recurring amounts are stored per cycle; monthly figures are derived
// 2. **Avoid circular references**: relationships are ID strings, not pointers
// 3. **Optional fields**: empty strings and nil pointers map to NULL columns
// 4. **Unix timestamps**: all instants are stored as Unix seconds
package models
