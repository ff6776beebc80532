package service

import (
	"context"
	"errors"

	"github.com/pennywise/pennywise-go/internal/model"
	"github.com/pennywise/pennywise-go/internal/repository"
)

var (
	ErrNoteNotFound      = errors.New("note not found")
	ErrTitleRequired     = errors.New("title is required")
	ErrContentRequired   = errors.New("content is required")
	ErrInvalidNoteAction = errors.New("action must be pin or unpin")
)

// NoteStore is the persistence surface for notes.
type NoteStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Note, error)
	GetByID(ctx context.Context, userID, id int64) (*model.Note, error)
	Create(ctx context.Context, note *model.Note) error
	Update(ctx context.Context, note *model.Note) error
	SetPinned(ctx context.Context, userID, id int64, pinned bool) error
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}

// NoteService handles note bookkeeping.
type NoteService struct {
	notes NoteStore
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes NoteStore) *NoteService {
	return &NoteService{notes: notes}
}

// List returns the user's notes, pinned first.
func (s *NoteService) List(ctx context.Context, userID int64) ([]model.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

// Create persists a new note.
func (s *NoteService) Create(ctx context.Context, userID int64, req model.NoteRequest) (*model.Note, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	if req.Content == "" {
		return nil, ErrContentRequired
	}

	note := &model.Note{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Pinned:  req.Pinned,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// Update replaces a note's content fields.
func (s *NoteService) Update(ctx context.Context, userID, id int64, req model.NoteRequest) (*model.Note, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	if req.Content == "" {
		return nil, ErrContentRequired
	}

	note, err := s.notes.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	note.Title = req.Title
	note.Content = req.Content
	note.Pinned = req.Pinned

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// Pin applies the pin or unpin action and returns the updated note.
func (s *NoteService) Pin(ctx context.Context, userID, id int64, action string) (*model.Note, error) {
	var pinned bool
	switch action {
	case "pin":
		pinned = true
	case "unpin":
		pinned = false
	default:
		return nil, ErrInvalidNoteAction
	}

	note, err := s.notes.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	if err := s.notes.SetPinned(ctx, userID, id, pinned); err != nil {
		return nil, err
	}

	note.Pinned = pinned
	return note, nil
}

// Delete removes the given notes. Unknown ids are skipped.
func (s *NoteService) Delete(ctx context.Context, userID int64, ids []int64) error {
	return s.notes.DeleteByIDs(ctx, userID, ids)
}

// PurgeUser removes every note a user owns.
func (s *NoteService) PurgeUser(ctx context.Context, userID int64) error {
	return s.notes.DeleteByUser(ctx, userID)
}
