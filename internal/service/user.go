package service

import (
	"context"
	"errors"

	"github.com/pennywise/pennywise-go/internal/model"
	"github.com/pennywise/pennywise-go/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// ProfileStore extends the auth user surface with profile mutation and
// removal.
type ProfileStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}

// UserPurger removes everything a store holds for one user. The
// transaction and note services implement it for the delete cascade.
type UserPurger interface {
	PurgeUser(ctx context.Context, userID int64) error
}

// UserService orchestrates the account lifecycle, including the cascade
// that removes a user's financial records and notes before the account
// row itself.
type UserService struct {
	users        ProfileStore
	transactions UserPurger
	notes        UserPurger
}

// NewUserService creates a new UserService.
func NewUserService(users ProfileStore, transactions, notes UserPurger) *UserService {
	return &UserService{users: users, transactions: transactions, notes: notes}
}

// Get retrieves a user's public projection.
func (s *UserService) Get(ctx context.Context, id int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return model.PublicUser(user), nil
}

// Update applies the provided profile fields and returns the updated
// projection.
func (s *UserService) Update(ctx context.Context, id int64, req model.UpdateUserRequest) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if req.Currency != nil {
		user.Currency = *req.Currency
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrUserExists
		}
		return model.UserResponse{}, err
	}

	return model.PublicUser(user), nil
}

// Delete removes a user and everything they own. The cascade runs
// financial records first, then notes, then the account row; it is not
// atomic, so a failure mid-cascade leaves the account intact for a retry.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.transactions.PurgeUser(ctx, id); err != nil {
		return err
	}
	if err := s.notes.PurgeUser(ctx, id); err != nil {
		return err
	}

	return s.users.Delete(ctx, id)
}
