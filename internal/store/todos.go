package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/askoura/todolists/internal/models"
)

// CreateTodo appends a task to the end of a list. The position is computed
// inside the INSERT so the append is atomic: first task gets position 1,
// every later one max(position)+1.
func (s *Store) CreateTodo(ctx context.Context, listID int64, task string, dueDate *string) (*models.Todo, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO todos (task, due_date, list_id, position)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM todos WHERE list_id = $3))
		RETURNING id`,
		task, dueDate, listID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return s.TodoByID(ctx, id)
}

func (s *Store) TodoByID(ctx context.Context, id int64) (*models.Todo, error) {
	var t models.Todo
	err := s.db.QueryRowContext(ctx,
		`SELECT id, task, done, due_date, position, list_id FROM todos WHERE id = $1`, id,
	).Scan(&t.ID, &t.Task, &t.Done, &t.DueDate, &t.Position, &t.ListID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TodosByList returns a list's tasks in display order.
func (s *Store) TodosByList(ctx context.Context, listID int64) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task, done, due_date, position, list_id FROM todos
		 WHERE list_id = $1 ORDER BY position`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Task, &t.Done, &t.DueDate, &t.Position, &t.ListID); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// UpdateTodo overwrites a task's text and due date. A nil dueDate clears it.
func (s *Store) UpdateTodo(ctx context.Context, id int64, task string, dueDate *string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET task = $1, due_date = $2 WHERE id = $3`, task, dueDate, id)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleTodo flips a task's done flag.
func (s *Store) ToggleTodo(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET done = NOT done WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("toggle todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTodo(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReorderTodos sets each task's position to its 1-based index in ids,
// all inside one transaction. If any id matches no row the whole reorder
// is rolled back and ErrNotFound is returned.
func (s *Store) ReorderTodos(ctx context.Context, ids []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, id := range ids {
		res, err := tx.ExecContext(ctx,
			`UPDATE todos SET position = $1 WHERE id = $2`, i+1, id)
		if err != nil {
			return fmt.Errorf("reorder todo %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}
	return tx.Commit()
}
