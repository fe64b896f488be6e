package service

import (
	"context"
	"fmt"
	"time"

	"prepkart/internal/model"
	"prepkart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// addressService implements AddressService.
type addressService struct {
	addressRepo repository.AddressRepository
	now         func() time.Time
	logger      zerolog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(addressRepo repository.AddressRepository, logger zerolog.Logger) AddressService {
	return &addressService{
		addressRepo: addressRepo,
		now:         time.Now,
		logger:      logger.With().Str("service", "address").Logger(),
	}
}

// List returns the addresses of a user.
func (s *addressService) List(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Create stores a new address unless the user already has the maximum.
// The count and insert share a transaction holding the user row lock.
func (s *addressService) Create(ctx context.Context, userID uuid.UUID, req *model.AddressRequest) (*model.Address, error) {
	if err := validateAddress(req); err != nil {
		return nil, err
	}

	now := s.now()
	addr := &model.Address{ID: uuid.New(), UserID: userID, CreatedAt: now}
	applyAddress(addr, req, now)

	err := withTx(ctx, s.addressRepo, s.logger, func(tx pgx.Tx) error {
		count, err := s.addressRepo.CountByUser(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("failed to count addresses: %w", err)
		}
		if count >= model.MaxAddressesPerUser {
			return model.ErrAddressLimit
		}
		if err := s.addressRepo.Create(ctx, tx, addr); err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("user_id", userID.String()).Str("address_id", addr.ID.String()).Msg("address created")
	return addr, nil
}

// Update edits an address owned by the user.
func (s *addressService) Update(ctx context.Context, userID uuid.UUID, addressID string, req *model.AddressRequest) (*model.Address, error) {
	addr, err := s.owned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if err := validateAddress(req); err != nil {
		return nil, err
	}

	applyAddress(addr, req, s.now())
	if err := s.addressRepo.Update(ctx, addr); err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return addr, nil
}

// Delete removes an address owned by the user.
func (s *addressService) Delete(ctx context.Context, userID uuid.UUID, addressID string) error {
	addr, err := s.owned(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if err := s.addressRepo.Delete(ctx, addr.ID); err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	return nil
}

func (s *addressService) owned(ctx context.Context, userID uuid.UUID, addressID string) (*model.Address, error) {
	id, err := parseID(addressID, model.ErrAddressNotFound)
	if err != nil {
		return nil, err
	}
	addr, err := s.addressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load address: %w", err)
	}
	if addr == nil {
		return nil, model.ErrAddressNotFound
	}
	if addr.UserID != userID {
		return nil, model.ErrForbidden
	}
	return addr, nil
}

func validateAddress(req *model.AddressRequest) error {
	if req == nil {
		return model.BadRequest(model.ErrCodeInvalidJSON, "Request body is required")
	}
	if field := req.MissingField(); field != "" {
		return model.BadRequest(model.ErrCodeMissingField, field+" is required")
	}
	return nil
}

func applyAddress(a *model.Address, req *model.AddressRequest, now time.Time) {
	a.FirstName = req.FirstName
	a.LastName = req.LastName
	a.Phone = req.Phone
	a.AddressLine1 = req.AddressLine1
	a.AddressLine2 = req.AddressLine2
	a.City = req.City
	a.State = req.State
	a.Pincode = req.Pincode
	a.Country = req.Country
	a.UpdatedAt = now
}
