package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/bramley-breezers/club-records/live"
	"github.com/bramley-breezers/club-records/models"
	"github.com/bramley-breezers/club-records/repositories"
	"github.com/bramley-breezers/club-records/storage"
	"github.com/google/uuid"
)

var ErrLogoUploadUnavailable = errors.New("logo storage is not configured")

type UpdateSettingsInput struct {
	ClubName         *string             `json:"club_name"`
	BandingMode      *models.BandingMode `json:"banding_mode"`
	ShowChampionship *bool               `json:"show_championship"`
}

// SettingsService owns club-wide configuration, including the banding mode
// that drives age category classification everywhere.
type SettingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*models.Settings, error)
	UploadLogo(ctx context.Context, filename, contentType string, reader io.Reader) (*models.Settings, error)
}

type settingsService struct {
	settingsRepo repositories.SettingsRepository
	cacheRepo    repositories.CacheRepository
	uploader     storage.FileUploader
	hub          *live.Hub
}

// NewSettingsService accepts a nil uploader: logo upload then reports
// ErrLogoUploadUnavailable instead of failing at startup.
func NewSettingsService(
	settingsRepo repositories.SettingsRepository,
	cacheRepo repositories.CacheRepository,
	uploader storage.FileUploader,
	hub *live.Hub,
) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		cacheRepo:    cacheRepo,
		uploader:     uploader,
		hub:          hub,
	}
}

func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	return s.settingsRepo.Get(ctx)
}

func (s *settingsService) Update(ctx context.Context, input UpdateSettingsInput) (*models.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if input.ClubName != nil {
		name := strings.TrimSpace(*input.ClubName)
		if name == "" {
			return nil, fmt.Errorf("%w: club name is required", ErrValidationFailed)
		}
		settings.ClubName = name
	}
	if input.BandingMode != nil {
		if *input.BandingMode != models.BandingTenYear && *input.BandingMode != models.BandingFiveYear {
			return nil, fmt.Errorf("%w: banding mode must be 10Y or 5Y", ErrValidationFailed)
		}
		settings.BandingMode = *input.BandingMode
	}
	if input.ShowChampionship != nil {
		settings.ShowChampionship = *input.ShowChampionship
	}
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	// Banding mode changes regroup every board, so invalidate.
	if _, err := s.cacheRepo.BumpGeneration(ctx); err != nil {
		slog.Warn("failed to bump data generation after settings update", slog.Any("error", err))
	}
	s.hub.Broadcast(live.EventSettingsUpdated, settings)
	return settings, nil
}

func (s *settingsService) UploadLogo(ctx context.Context, filename, contentType string, reader io.Reader) (*models.Settings, error) {
	if s.uploader == nil {
		return nil, ErrLogoUploadUnavailable
	}
	ext := path.Ext(filename)
	key := "logos/" + uuid.NewString() + ext
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo: %w", err)
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	settings.LogoURL = result.Location
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.hub.Broadcast(live.EventSettingsUpdated, settings)
	return settings, nil
}
