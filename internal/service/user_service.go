package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/rs/zerolog/log"

	"github.com/decanter-app/decanter/internal/store"
	users "github.com/decanter-app/decanter/internal/user"
	"github.com/decanter-app/decanter/internal/utils"
)

type UserService struct {
	store *store.UserStore
	now   clock
}

func NewUserService(store *store.UserStore) *UserService {
	return &UserService{store: store, now: time.Now}
}

// displayName prefers the provider's full name, then its nickname, then the
// email address.
func displayName(gothUser goth.User) string {
	for _, name := range []string{gothUser.Name, gothUser.NickName, gothUser.Email} {
		if name != "" {
			return name
		}
	}
	return "Volunteer"
}

// FindOrCreateUserByProvider maps an OAuth login onto a local account,
// refreshing the provider supplied details on every login.
func (s *UserService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	user, err := s.store.GetUserByProvider(ctx, gothUser.Provider, gothUser.UserID)

	if err == nil {
		name := displayName(gothUser)
		avatar := utils.StringOrNil(gothUser.AvatarURL)
		if user.Email != gothUser.Email || user.Username != name || utils.OrZero(user.AvatarURL) != utils.OrZero(avatar) {
			user.Email = gothUser.Email
			user.Username = name
			user.AvatarURL = avatar
			if err := s.store.UpdateUserProfile(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		newUser := &users.User{
			ID:         uuid.New(),
			Email:      gothUser.Email,
			Username:   displayName(gothUser),
			Provider:   utils.Ptr(gothUser.Provider),
			ProviderID: utils.Ptr(gothUser.UserID),
			AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
			CreatedAt:  s.now.utc(),
		}
		if err := s.store.CreateUser(ctx, newUser); err != nil {
			return nil, err
		}
		log.Ctx(ctx).Info().Str("user_id", newUser.ID.String()).Str("provider", gothUser.Provider).Msg("User created")
		return newUser, nil
	}

	return nil, err
}
