package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListsByOwnerOrderAndScope(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	groceries := mustList(t, s, alice.ID, "Groceries")
	chores := mustList(t, s, alice.ID, "Chores")
	mustList(t, s, bob.ID, "Work")

	lists, err := s.ListsByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, groceries.ID, lists[0].ID)
	assert.Equal(t, chores.ID, lists[1].ID)
}

func TestListByIDAndOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	l := mustList(t, s, alice.ID, "Groceries")

	got, err := s.ListByIDAndOwner(ctx, l.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Name)

	_, err = s.ListByIDAndOwner(ctx, l.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByOwnerAndName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	mustList(t, s, alice.ID, "Groceries")

	_, err := s.ListByOwnerAndName(ctx, alice.ID, "Groceries")
	require.NoError(t, err)

	// same name under a different owner is not a conflict at creation
	_, err = s.ListByOwnerAndName(ctx, bob.ID, "Groceries")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByNameExceptSpansOwners(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	mine := mustList(t, s, alice.ID, "Groceries")
	theirs := mustList(t, s, bob.ID, "Work")

	// the rename check sees every owner's lists
	got, err := s.ListByNameExcept(ctx, "Work", mine.ID)
	require.NoError(t, err)
	assert.Equal(t, theirs.ID, got.ID)

	// but a list never conflicts with itself
	_, err = s.ListByNameExcept(ctx, "Groceries", mine.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, s, "alice")
	l := mustList(t, s, alice.ID, "Groceries")

	require.NoError(t, s.RenameList(ctx, l.ID, "Food"))
	got, err := s.ListByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Name)

	assert.ErrorIs(t, s.RenameList(ctx, 9999, "Nope"), ErrNotFound)
}

func TestDeleteListCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, s, "alice")
	l := mustList(t, s, alice.ID, "Groceries")
	mustTodo(t, s, l.ID, "Milk")
	mustTodo(t, s, l.ID, "Eggs")

	require.NoError(t, s.DeleteList(ctx, l.ID))

	_, err := s.ListByID(ctx, l.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	todos, err := s.TodosByList(ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestDeleteListMissing(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.DeleteList(context.Background(), 9999), ErrNotFound)
}
