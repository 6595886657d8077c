package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopcore/minishop/pkg/idx"
)

type groupsRepo struct {
	q querier
}

func (r *groupsRepo) GroupNamesForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT g.name FROM groups g
		 JOIN user_groups ug ON ug.group_id = g.id
		 WHERE ug.user_id = ?
		 ORDER BY g.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *groupsRepo) AssignUserToGroup(ctx context.Context, userID, name string) error {
	groupID, err := r.getOrCreateGroup(ctx, name)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_groups (user_id, group_id) VALUES (?, ?)`,
		userID, groupID)
	return err
}

func (r *groupsRepo) ReplaceUserGroups(ctx context.Context, userID string, names []string) error {
	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM user_groups WHERE user_id = ?`, userID); err != nil {
		return err
	}

	for _, name := range names {
		if err := r.AssignUserToGroup(ctx, userID, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *groupsRepo) getOrCreateGroup(ctx context.Context, name string) (string, error) {
	var id string
	err := r.q.QueryRowContext(ctx, `SELECT id FROM groups WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	id = idx.New().String()
	// A concurrent insert can win the race on the unique name; fall back to a
	// re-read in that case.
	_, err = r.q.ExecContext(ctx,
		`INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)`,
		id, name, time.Now().UTC())
	if err != nil {
		var existing string
		if lookupErr := r.q.QueryRowContext(ctx,
			`SELECT id FROM groups WHERE name = ?`, name).Scan(&existing); lookupErr == nil {
			return existing, nil
		}
		return "", err
	}
	return id, nil
}
