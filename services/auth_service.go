package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bramley-breezers/club-records/repositories"
	"github.com/bramley-breezers/club-records/utils"
)

const minPasswordLength = 8

// AuthService guards the single shared admin credential. There are no user
// accounts: one password unlocks the whole admin surface.
type AuthService interface {
	Login(ctx context.Context, password string) error
	ChangePassword(ctx context.Context, current, next string) error
	EnsurePassword(ctx context.Context, initial string) error
}

type authService struct {
	settingsRepo repositories.SettingsRepository
}

func NewAuthService(settingsRepo repositories.SettingsRepository) AuthService {
	return &authService{settingsRepo: settingsRepo}
}

func (s *authService) Login(ctx context.Context, password string) error {
	hash, err := s.settingsRepo.GetPasswordHash(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrPasswordNotSet) {
			return ErrInvalidCredential
		}
		return fmt.Errorf("failed to load admin password: %w", err)
	}
	if !utils.CheckPasswordHash(password, hash) {
		return ErrInvalidCredential
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, current, next string) error {
	if err := s.Login(ctx, current); err != nil {
		return err
	}
	if len(next) < minPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	return s.settingsRepo.SetPasswordHash(ctx, hash)
}

// EnsurePassword seeds the admin credential on first boot. An existing hash
// is never overwritten.
func (s *authService) EnsurePassword(ctx context.Context, initial string) error {
	_, err := s.settingsRepo.GetPasswordHash(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrPasswordNotSet) {
		return fmt.Errorf("failed to check admin password: %w", err)
	}
	hash, err := utils.HashPassword(initial)
	if err != nil {
		return fmt.Errorf("failed to hash initial password: %w", err)
	}
	return s.settingsRepo.SetPasswordHash(ctx, hash)
}
