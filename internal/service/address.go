package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	"github.com/angkushsahu/pacifio-server/internal/repository"
	apperrors "github.com/angkushsahu/pacifio-server/pkg/errors"
)

// AddressService implements the user's address book.
type AddressService struct {
	addresses repository.AddressRepository
	logger    *slog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(addresses repository.AddressRepository, logger *slog.Logger) *AddressService {
	return &AddressService{
		addresses: addresses,
		logger:    logger,
	}
}

// AddressInput holds the fields for creating an address.
type AddressInput struct {
	ContactNumber string
	Location      string
	City          string
	State         string
	Pincode       string
	Country       string
}

// CreateAddress adds an address to the user's address book.
func (s *AddressService) CreateAddress(ctx context.Context, userID string, input AddressInput) (*domain.Address, error) {
	address := &domain.Address{
		ID:            uuid.New().String(),
		UserID:        userID,
		ContactNumber: input.ContactNumber,
		Location:      input.Location,
		City:          input.City,
		State:         input.State,
		Pincode:       input.Pincode,
		Country:       input.Country,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	s.logger.InfoContext(ctx, "address created",
		slog.String("address_id", address.ID),
		slog.String("user_id", userID),
	)

	return address, nil
}

// GetAddress retrieves one of the user's addresses. A foreign address is
// indistinguishable from a missing one.
func (s *AddressService) GetAddress(ctx context.Context, userID, addressID string) (*domain.Address, error) {
	address, err := s.addresses.GetByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("address", addressID)
		}
		return nil, fmt.Errorf("get address by id: %w", err)
	}

	if address.UserID != userID {
		return nil, apperrors.NotFound("address", addressID)
	}

	return address, nil
}

// ListAddresses returns all of the user's addresses, newest first.
func (s *AddressService) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// DeleteAddress removes one of the user's addresses. Orders keep their
// snapshot of it.
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	if _, err := s.GetAddress(ctx, userID, addressID); err != nil {
		return err
	}

	if err := s.addresses.Delete(ctx, addressID); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	s.logger.InfoContext(ctx, "address deleted",
		slog.String("address_id", addressID),
		slog.String("user_id", userID),
	)

	return nil
}
