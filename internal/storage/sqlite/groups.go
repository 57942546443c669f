package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/famiglia/internal/calculator"
	"github.com/mmynk/famiglia/internal/models"
	"github.com/mmynk/famiglia/internal/storage"
)

// CreateGroup persists a new group and its owner's member row in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, owner *models.Member) error {
	now := time.Now().Unix()
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = now
	}
	group.UpdatedAt = group.CreatedAt

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO groups (id, name, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			group.ID, group.Name, group.OwnerID, group.CreatedAt, group.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		if owner == nil {
			return nil
		}
		owner.GroupID = group.ID
		return insertMember(ctx, tx, owner)
	})
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, owner_id, created_at, updated_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt, &group.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroupsForUser returns all groups the user is a member of, newest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT g.id, g.name, g.owner_id, g.created_at, g.updated_at
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ?
		 ORDER BY g.created_at DESC, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// DeleteGroup deletes a group. Members, categories, expenses and payments cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return requireAffected(res, "group", groupID)
}

// IsMember reports whether the user has a member row in the group.
func (s *SQLiteStore) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)",
		groupID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

const memberColumns = "id, group_id, user_id, name, quota_percent, created_at"

// ListMembers returns the members of a group in creation order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	return listMembers(ctx, s.db, groupID)
}

// GetMember retrieves a member of the group.
func (s *SQLiteStore) GetMember(ctx context.Context, groupID, memberID string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM group_members WHERE group_id = ? AND id = ?",
		groupID, memberID,
	)
	member, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// AddMember inserts a member after checking the quota ceiling against the existing members.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		members, err := listMembers(ctx, tx, member.GroupID)
		if err != nil {
			return err
		}
		if err := calculator.CheckQuotaCeiling(quotasExcept(members, ""), member.QuotaPercent); err != nil {
			return err
		}
		return insertMember(ctx, tx, member)
	})
}

// UpdateMember changes a member's name and quota after checking the ceiling
// against every other member of the group.
func (s *SQLiteStore) UpdateMember(ctx context.Context, member *models.Member) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		members, err := listMembers(ctx, tx, member.GroupID)
		if err != nil {
			return err
		}

		var current *models.Member
		for _, m := range members {
			if m.ID == member.ID {
				current = m
				break
			}
		}
		if current == nil {
			return fmt.Errorf("member %s: %w", member.ID, storage.ErrNotFound)
		}

		if err := calculator.CheckQuotaCeiling(quotasExcept(members, member.ID), member.QuotaPercent); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE group_members SET name = ?, quota_percent = ? WHERE id = ?",
			member.Name, member.QuotaPercent, member.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update member: %w", err)
		}

		member.UserID = current.UserID
		member.CreatedAt = current.CreatedAt
		return nil
	})
}

// RemoveMember deletes a member. Their settlement payments cascade.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, memberID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND id = ?",
		groupID, memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return requireAffected(res, "member", memberID)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listMembers(ctx context.Context, q querier, groupID string) ([]*models.Member, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM group_members WHERE group_id = ? ORDER BY created_at, rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

func insertMember(ctx context.Context, tx execer, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	_, err := tx.ExecContext(ctx,
		"INSERT INTO group_members ("+memberColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		member.ID, member.GroupID, nullString(member.UserID), member.Name, member.QuotaPercent, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func scanMember(row scanner) (*models.Member, error) {
	member := &models.Member{}
	var userID sql.NullString
	if err := row.Scan(&member.ID, &member.GroupID, &userID, &member.Name, &member.QuotaPercent, &member.CreatedAt); err != nil {
		return nil, err
	}
	member.UserID = userID.String
	return member, nil
}

func quotasExcept(members []*models.Member, skipID string) []float64 {
	quotas := make([]float64, 0, len(members))
	for _, m := range members {
		if m.ID != skipID {
			quotas = append(quotas, m.QuotaPercent)
		}
	}
	return quotas
}
