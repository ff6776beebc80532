package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennywise/pennywise-go/internal/model"
)

func newTestNoteService() (*NoteService, *fakeNoteStore) {
	notes := newFakeNoteStore()
	return NewNoteService(notes), notes
}

func TestCreateNote(t *testing.T) {
	svc, _ := newTestNoteService()

	note, err := svc.Create(context.Background(), 1, model.NoteRequest{
		Title: "Groceries", Content: "milk, eggs",
	})
	require.NoError(t, err)
	assert.NotZero(t, note.ID)
	assert.False(t, note.Pinned)
}

func TestCreateNoteValidation(t *testing.T) {
	svc, _ := newTestNoteService()

	_, err := svc.Create(context.Background(), 1, model.NoteRequest{Content: "no title"})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(context.Background(), 1, model.NoteRequest{Title: "no content"})
	assert.ErrorIs(t, err, ErrContentRequired)
}

func TestUpdateNote(t *testing.T) {
	svc, _ := newTestNoteService()

	note, err := svc.Create(context.Background(), 1, model.NoteRequest{Title: "a", Content: "b"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), 1, note.ID, model.NoteRequest{
		Title: "a2", Content: "b2",
	})
	require.NoError(t, err)
	assert.Equal(t, "a2", updated.Title)
	assert.Equal(t, "b2", updated.Content)
}

func TestUpdateNoteNotFound(t *testing.T) {
	svc, _ := newTestNoteService()

	_, err := svc.Update(context.Background(), 1, 42, model.NoteRequest{Title: "a", Content: "b"})
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestUpdateNoteForeignUser(t *testing.T) {
	svc, _ := newTestNoteService()

	note, err := svc.Create(context.Background(), 1, model.NoteRequest{Title: "a", Content: "b"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 2, note.ID, model.NoteRequest{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestPinUnpin(t *testing.T) {
	svc, _ := newTestNoteService()

	note, err := svc.Create(context.Background(), 1, model.NoteRequest{Title: "a", Content: "b"})
	require.NoError(t, err)

	pinned, err := svc.Pin(context.Background(), 1, note.ID, "pin")
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)

	// Pinning an already-pinned note is a no-op, not an error.
	pinned, err = svc.Pin(context.Background(), 1, note.ID, "pin")
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)

	unpinned, err := svc.Pin(context.Background(), 1, note.ID, "unpin")
	require.NoError(t, err)
	assert.False(t, unpinned.Pinned)
}

func TestPinInvalidAction(t *testing.T) {
	svc, _ := newTestNoteService()

	note, err := svc.Create(context.Background(), 1, model.NoteRequest{Title: "a", Content: "b"})
	require.NoError(t, err)

	_, err = svc.Pin(context.Background(), 1, note.ID, "archive")
	assert.ErrorIs(t, err, ErrInvalidNoteAction)
}

func TestPinNoteNotFound(t *testing.T) {
	svc, _ := newTestNoteService()

	_, err := svc.Pin(context.Background(), 1, 42, "pin")
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestListNotesPinnedFirst(t *testing.T) {
	svc, _ := newTestNoteService()

	first, err := svc.Create(context.Background(), 1, model.NoteRequest{Title: "old", Content: "x"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 1, model.NoteRequest{Title: "new", Content: "x"})
	require.NoError(t, err)

	_, err = svc.Pin(context.Background(), 1, first.ID, "pin")
	require.NoError(t, err)

	list, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "old", list[0].Title)
}

func TestDeleteNotes(t *testing.T) {
	svc, _ := newTestNoteService()

	a, err := svc.Create(context.Background(), 1, model.NoteRequest{Title: "a", Content: "x"})
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), 1, model.NoteRequest{Title: "b", Content: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, []int64{a.ID, b.ID}))

	list, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}
