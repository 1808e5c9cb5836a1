package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decanter-app/decanter/internal/testutil"
	users "github.com/decanter-app/decanter/internal/user"
	"github.com/decanter-app/decanter/internal/utils"
)

func TestUserStore(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	store := NewUserStore(db)

	user := &users.User{
		ID:         uuid.New(),
		Email:      "ada@example.com",
		Username:   "Ada",
		Provider:   utils.Ptr("google"),
		ProviderID: utils.Ptr("g-123"),
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, store.CreateUser(ctx, user))

	got, err := store.GetUserByProvider(ctx, "google", "g-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = store.GetUserByProvider(ctx, "discord", "g-123")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	user.Username = "Ada L."
	user.AvatarURL = utils.Ptr("https://example.com/ada.png")
	require.NoError(t, store.UpdateUserProfile(ctx, user))

	got, err = store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", got.Username)
	assert.Equal(t, "https://example.com/ada.png", utils.OrZero(got.AvatarURL))
}
