package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/internal/storage"
)

func (s *PostgresStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.UpdatedAt == 0 {
		group.UpdatedAt = group.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		group.ID, group.Name, group.Description, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, member := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, position) VALUES ($1, $2, $3)",
			group.ID, member.ID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member %s: %w", member.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM groups WHERE id = $1",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.CreatedAt, &group.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if group.Members, err = s.groupMembers(ctx, groupID); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *PostgresStore) groupMembers(ctx context.Context, groupID string) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.email, u.avatar, u.created_at
		 FROM group_members gm JOIN users u ON u.id = gm.user_id
		 WHERE gm.group_id = $1 ORDER BY gm.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}

func (s *PostgresStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM groups ORDER BY created_at DESC, name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.CreatedAt, &group.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if group.Members, err = s.groupMembers(ctx, group.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (s *PostgresStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = time.Now().Unix()
	result, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = $1, description = $2, updated_at = $3 WHERE id = $4",
		group.Name, group.Description, group.UpdatedAt, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return notFoundIfNone(result, "group", group.ID)
}

func (s *PostgresStore) DeleteGroup(ctx context.Context, groupID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = $1", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return notFoundIfNone(result, "group", groupID)
}

func (s *PostgresStore) AddGroupMember(ctx context.Context, groupID, userID string) error {
	ok, err := s.exists(ctx, "SELECT 1 FROM groups WHERE id = $1", groupID)
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	ok, err = s.exists(ctx, "SELECT 1 FROM users WHERE id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to check user existence: %w", err)
	}
	if !ok {
		return fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Concurrent appends get distinct positions under the group lock.
	if err := lockGroup(ctx, tx, groupID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, position)
		 SELECT $1::text, $2::text, COALESCE(MAX(position), -1) + 1 FROM group_members WHERE group_id = $1
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE groups SET updated_at = $1 WHERE id = $2", time.Now().Unix(), groupID,
	); err != nil {
		return fmt.Errorf("failed to touch group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockGroup(ctx, tx, groupID); err != nil {
		return err
	}

	var inUse bool
	err = tx.QueryRowContext(ctx, `SELECT
		EXISTS (SELECT 1 FROM expenses WHERE group_id = $1 AND paid_by = $2)
		OR EXISTS (SELECT 1 FROM expense_splits es JOIN expenses e ON e.id = es.expense_id
		           WHERE e.group_id = $1 AND es.user_id = $2)
		OR EXISTS (SELECT 1 FROM settlements WHERE group_id = $1 AND (from_user_id = $2 OR to_user_id = $2))`,
		groupID, userID,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("failed to check member references: %w", err)
	}
	if inUse {
		return fmt.Errorf("member %s of group %s: %w", userID, groupID, storage.ErrMemberInUse)
	}

	result, err := tx.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = $1 AND user_id = $2",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	if err := notFoundIfNone(result, "member", userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE groups SET updated_at = $1 WHERE id = $2", time.Now().Unix(), groupID,
	); err != nil {
		return fmt.Errorf("failed to touch group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
