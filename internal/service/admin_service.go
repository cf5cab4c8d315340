package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shortkey/internal/database"
	"shortkey/internal/models"
	"shortkey/internal/repository"
)

// AdminService defines the interface for administrative operations. Callers
// are already verified as admins by the HTTP layer.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*models.UserResponse, error)
	DeleteUser(ctx context.Context, callerID, targetID int64) error
}

type adminService struct {
	users  repository.UserRepository
	urls   repository.URLRepository
	clicks repository.ClickRepository
	tx     database.Transactor
}

// NewAdminService creates a new admin service
func NewAdminService(
	users repository.UserRepository,
	urls repository.URLRepository,
	clicks repository.ClickRepository,
	tx database.Transactor,
) AdminService {
	return &adminService{
		users:  users,
		urls:   urls,
		clicks: clicks,
		tx:     tx,
	}
}

// ListUsers returns every user account.
func (s *adminService) ListUsers(ctx context.Context) ([]*models.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = &models.UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: user.CreatedAt.Unix(),
		}
	}

	return responses, nil
}

// DeleteUser removes a user and everything rooted at it: click events, then
// mappings, then the user, in one transaction. Admins may not delete
// themselves. Cache entries for the deleted codes are left to expire.
func (s *adminService) DeleteUser(ctx context.Context, callerID, targetID int64) error {
	if callerID == targetID {
		return ErrSelfDelete
	}

	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	err := s.tx.Transact(ctx, func(tx *sql.Tx) error {
		if err := s.clicks.WithTx(tx).DeleteByUser(ctx, targetID); err != nil {
			return err
		}
		if err := s.urls.WithTx(tx).DeleteByUser(ctx, targetID); err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(ctx, targetID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", targetID, err)
	}
	return nil
}
