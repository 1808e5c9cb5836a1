package views

import (
	"context"

	"github.com/decanter-app/decanter/internal/middleware"
	users "github.com/decanter-app/decanter/internal/user"
)

func GetUser(ctx context.Context) *users.User {
	return middleware.GetAuthenticatedUser(ctx)
}
