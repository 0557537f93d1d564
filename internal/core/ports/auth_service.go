package ports

import (
	"context"
	"time"

	"github.com/obituaryapp/obituary-api/internal/core/domain"
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token   string
	Expires time.Time
	User    *domain.User
}

// AuthService implements self-registration and bearer-token login. Both
// schemes (bearer for the API, cookie session for the web UI) verify
// passwords through the same service.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// VerifyPassword checks credentials without issuing a token. Used by the
	// cookie-session login path.
	VerifyPassword(ctx context.Context, email, password string) (*domain.User, error)
}
