package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/famiglia/internal/models"
)

const categoryColumns = "id, group_id, name, icon, color, created_at"

// ListCategories returns the categories of a group in creation order.
func (s *SQLiteStore) ListCategories(ctx context.Context, groupID string) ([]*models.Category, error) {
	return listCategories(ctx, s.db, groupID)
}

// SeedDefaultCategories inserts the default categories when the group has none.
// Emptiness is re-checked inside the transaction, so concurrent callers seed once.
func (s *SQLiteStore) SeedDefaultCategories(ctx context.Context, groupID string) ([]*models.Category, error) {
	var categories []*models.Category
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := listCategories(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			categories = existing
			return nil
		}

		now := time.Now().Unix()
		for _, d := range models.DefaultCategories {
			c := &models.Category{
				GroupID:   groupID,
				Name:      d.Name,
				Icon:      d.Icon,
				Color:     d.Color,
				CreatedAt: now,
			}
			if err := insertCategory(ctx, tx, c); err != nil {
				return err
			}
			categories = append(categories, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory persists a new category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}
	return insertCategory(ctx, s.db, category)
}

// DeleteCategory deletes a category. Expenses referencing it become uncategorized.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, groupID, categoryID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expense_categories WHERE group_id = ? AND id = ?",
		groupID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireAffected(res, "category", categoryID)
}

func listCategories(ctx context.Context, q querier, groupID string) ([]*models.Category, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM expense_categories WHERE group_id = ? ORDER BY created_at, rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.GroupID, &c.Name, &c.Icon, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

func insertCategory(ctx context.Context, tx execer, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO expense_categories ("+categoryColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.GroupID, c.Name, c.Icon, c.Color, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}
