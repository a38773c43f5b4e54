package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/askoura/todolists/internal/models"
)

func (s *Store) CreateList(ctx context.Context, userID int64, name string) (*models.TodoList, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO todo_lists (name, user_id) VALUES ($1, $2) RETURNING id`,
		name, userID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	return s.ListByID(ctx, id)
}

func (s *Store) ListByID(ctx context.Context, id int64) (*models.TodoList, error) {
	var l models.TodoList
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, user_id FROM todo_lists WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.CreatedAt, &l.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByIDAndOwner is the ownership check for reads: it matches only when
// the list exists and belongs to userID.
func (s *Store) ListByIDAndOwner(ctx context.Context, id, userID int64) (*models.TodoList, error) {
	var l models.TodoList
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, user_id FROM todo_lists WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&l.ID, &l.Name, &l.CreatedAt, &l.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListsByOwner returns all of a user's lists, oldest first.
func (s *Store) ListsByOwner(ctx context.Context, userID int64) ([]models.TodoList, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, user_id FROM todo_lists
		 WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []models.TodoList
	for rows.Next() {
		var l models.TodoList
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt, &l.UserID); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// ListByOwnerAndName backs the per-owner duplicate-name check at creation.
func (s *Store) ListByOwnerAndName(ctx context.Context, userID int64, name string) (*models.TodoList, error) {
	var l models.TodoList
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, user_id FROM todo_lists WHERE user_id = $1 AND name = $2`,
		userID, name,
	).Scan(&l.ID, &l.Name, &l.CreatedAt, &l.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByNameExcept backs the rename duplicate check, which is scoped across
// all owners, not just the caller's lists.
func (s *Store) ListByNameExcept(ctx context.Context, name string, excludeID int64) (*models.TodoList, error) {
	var l models.TodoList
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, user_id FROM todo_lists WHERE name = $1 AND id <> $2`,
		name, excludeID,
	).Scan(&l.ID, &l.Name, &l.CreatedAt, &l.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) RenameList(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE todo_lists SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("rename list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteList removes a list and all of its todos in one transaction.
func (s *Store) DeleteList(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE list_id = $1`, id); err != nil {
		return fmt.Errorf("delete list todos: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM todo_lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
