package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/infrastructure/gemini"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/pkg/validation"
)

// BioGenerator suggests profile bios.
type BioGenerator interface {
	GenerateBios(ctx context.Context, in gemini.BioInput) ([]string, error)
}

type ProfileUseCase struct {
	profileRepo  repository.ProfileRepository
	bioGenerator BioGenerator
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewProfileUseCase creates the use case. bioGenerator may be nil, in which
// case bio generation is unavailable.
func NewProfileUseCase(
	profileRepo repository.ProfileRepository,
	bioGenerator BioGenerator,
	v *validator.Validate,
	logger *zap.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo:  profileRepo,
		bioGenerator: bioGenerator,
		validate:     v,
		logger:       logger,
	}
}

// GenerateBioRequest represents request to generate bio
type GenerateBioRequest struct {
	Tone string `json:"tone" validate:"omitempty,max=40"`
}

// GenerateBioResponse holds the suggested bios
type GenerateBioResponse struct {
	Suggestions []string `json:"suggestions"`
}

// GetMyProfile returns the user's profile, or a fresh default one when none
// has been saved yet.
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := uc.profileRepo.Get(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.NewDefaultProfile(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile merges the provided fields into the profile and saves it.
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID string, patch *domain.ProfilePatch) (*domain.Profile, error) {
	if err := validation.Struct(uc.validate, patch); err != nil {
		return nil, err
	}

	profile, err := uc.GetMyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch.Apply(profile)
	if err := uc.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	uc.logger.Debug("profile updated", zap.String("user_id", userID))
	return profile, nil
}

// UpdateAvatar replaces the avatar descriptor.
func (uc *ProfileUseCase) UpdateAvatar(ctx context.Context, userID string, avatar *domain.Avatar) (*domain.Profile, error) {
	return uc.UpdateProfile(ctx, userID, &domain.ProfilePatch{Avatar: avatar})
}

// GenerateBio suggests bios built from the user's profile.
func (uc *ProfileUseCase) GenerateBio(ctx context.Context, userID string, req *GenerateBioRequest) (*GenerateBioResponse, error) {
	if uc.bioGenerator == nil {
		return nil, fmt.Errorf("%w: bio generation is not configured", domain.ErrFeatureUnavailable)
	}
	if err := validation.Struct(uc.validate, req); err != nil {
		return nil, err
	}

	profile, err := uc.GetMyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	bios, err := uc.bioGenerator.GenerateBios(ctx, gemini.BioInput{
		DisplayName: profile.DisplayName,
		Interests:   profile.Interests,
		Values:      profile.Values,
		CityBucket:  profile.CityBucket,
		Tone:        req.Tone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate bio: %w", err)
	}
	return &GenerateBioResponse{Suggestions: bios}, nil
}
