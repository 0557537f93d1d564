package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/obituaryapp/obituary-api/internal/core/domain"
	"github.com/obituaryapp/obituary-api/internal/core/ports"
)

// TokenConfig carries the signing parameters for issued bearer tokens.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// AuthService implements registration and login. Self-registered accounts
// always receive the "user" role; the "admin" role is only ever seeded.
type AuthService struct {
	repo  ports.AuthRepository
	token TokenConfig
}

func NewAuthService(repo ports.AuthRepository, token TokenConfig) *AuthService {
	if token.TTL <= 0 {
		token.TTL = 60 * time.Minute
	}
	return &AuthService{repo: repo, token: token}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

// Login verifies the password and issues a signed bearer token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	expires := time.Now().UTC().Add(s.token.TTL)
	token, err := s.generateToken(user, expires)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token, Expires: expires, User: user}, nil
}

func (s *AuthService) VerifyPassword(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) generateToken(user *domain.User, expires time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Email,
		"jti":   uuid.NewString(),
		"roles": user.Roles,
		"iss":   s.token.Issuer,
		"aud":   s.token.Audience,
		"iat":   time.Now().Unix(),
		"exp":   expires.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.token.Secret))
}
