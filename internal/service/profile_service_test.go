package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decanter-app/decanter/internal/apperr"
	"github.com/decanter-app/decanter/internal/validate"
)

func TestUpsertProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx, userID := env.signIn(t, "volunteer@example.com")

	none, err := env.profileSv.GetProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	saved, err := env.profileSv.UpsertProfile(ctx, validate.ProfileInput{
		Name:         "  Ada   Lovelace ",
		Education:    "BS Mathematics",
		Bio:          " Coach ",
		PreferencesB: prefs("Heredity", "Codebusters"),
		PreferencesC: prefs("Astronomy"),
	})
	require.NoError(t, err)
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, "Ada Lovelace", saved.Name)

	got, err := env.profileSv.GetProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Coach", got.Bio)
	assert.Equal(t, "Heredity", got.PreferencesB[0])
	assert.Equal(t, "Astronomy", got.PreferencesC[0])
}

func TestUpsertProfileValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx, _ := env.signIn(t, "volunteer@example.com")

	tests := []struct {
		name    string
		input   validate.ProfileInput
		field   string
		message string
	}{
		{
			name:    "single name",
			input:   validate.ProfileInput{Name: "Ada", Education: "BS", PreferencesB: prefs(), PreferencesC: prefs()},
			field:   "name",
			message: "Please enter your first and last name",
		},
		{
			name:    "c event in b list",
			input:   validate.ProfileInput{Name: "Ada Lovelace", Education: "BS", PreferencesB: prefs("Astronomy"), PreferencesC: prefs()},
			field:   "preferencesB",
			message: "Invalid event",
		},
		{
			name:    "gaps",
			input:   validate.ProfileInput{Name: "Ada Lovelace", Education: "BS", PreferencesB: prefs(), PreferencesC: prefs("", "Astronomy")},
			field:   "preferencesC",
			message: "Preferences must not have gaps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.profileSv.UpsertProfile(ctx, tt.input)
			require.True(t, apperr.Is(err, apperr.InvalidInput), "got %v", err)
			assert.Contains(t, apperr.Fields(err)[tt.field], tt.message)
		})
	}
	assert.Equal(t, 0, countRows(t, env, "volunteer_profiles"))

	_, err := env.profileSv.GetProfile(context.Background())
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}
