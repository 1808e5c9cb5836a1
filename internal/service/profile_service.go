package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/decanter-app/decanter/internal/apperr"
	"github.com/decanter-app/decanter/internal/store"
	"github.com/decanter-app/decanter/internal/validate"
	"github.com/decanter-app/decanter/internal/volunteer"
)

type ProfileService struct {
	store     *store.ProfileStore
	validator *validate.Validator
	now       clock
}

func NewProfileService(store *store.ProfileStore, v *validate.Validator) *ProfileService {
	return &ProfileService{store: store, validator: v, now: time.Now}
}

func (s *ProfileService) UpsertProfile(ctx context.Context, input validate.ProfileInput) (*volunteer.Profile, error) {
	input.Normalize()
	if fields := s.validator.Struct(&input); fields != nil {
		return nil, apperr.Invalid(fields)
	}

	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}

	profile := &volunteer.Profile{
		UserID:       claims.Sub,
		Name:         input.Name,
		Education:    input.Education,
		Bio:          input.Bio,
		Experience:   input.Experience,
		PreferencesB: validate.ToPreferences(input.PreferencesB),
		PreferencesC: validate.ToPreferences(input.PreferencesC),
		UpdatedAt:    s.now.utc(),
	}
	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, storeError(ctx, "Error saving volunteer profile", err)
	}
	return profile, nil
}

// GetProfile returns the caller's profile, or nil before one is created.
func (s *ProfileService) GetProfile(ctx context.Context) (*volunteer.Profile, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx, claims.Sub)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(ctx, "Error retrieving volunteer profile", err)
	}
	return profile, nil
}
