package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	"github.com/angkushsahu/pacifio-server/internal/repository"
	apperrors "github.com/angkushsahu/pacifio-server/pkg/errors"
)

// UserService implements account reads and the account deletion cascade.
type UserService struct {
	users  repository.UserRepository
	bags   repository.BagRepository
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, bags repository.BagRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		bags:   bags,
		logger: logger,
	}
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user and their addresses in one transaction,
// then clears the bag. Orders stay behind as historical facts; a bag that
// fails to delete expires through its TTL.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.DeleteCascade(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("user", userID)
		}
		return fmt.Errorf("delete user cascade: %w", err)
	}

	if err := s.bags.Delete(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear bag for deleted account",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "account deleted", slog.String("user_id", userID))

	return nil
}
