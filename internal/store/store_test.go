package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askoura/todolists/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func mustUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), name, "x")
	require.NoError(t, err)
	return u
}

func mustList(t *testing.T, s *Store, userID int64, name string) *models.TodoList {
	t.Helper()
	l, err := s.CreateList(context.Background(), userID, name)
	require.NoError(t, err)
	return l
}

func mustTodo(t *testing.T, s *Store, listID int64, task string) *models.Todo {
	t.Helper()
	td, err := s.CreateTodo(context.Background(), listID, task, nil)
	require.NoError(t, err)
	return td
}
