package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelis/habitdo/internal/config"
	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService resolves bearer tokens to acting users. Identity tokens are
// HS256 JWTs minted by the external identity provider; long-lived API tokens
// are looked up by hash as a fallback.
type AuthService struct {
	secret    []byte
	issuer    string
	tokenTTL  time.Duration
	userRepo  repository.UserRepository
	tokenRepo repository.APITokenRepository
}

type userClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewAuthService(cfg config.Config, userRepo repository.UserRepository, tokenRepo repository.APITokenRepository) *AuthService {
	return &AuthService{
		secret:    []byte(cfg.AuthSecret),
		issuer:    cfg.TokenIssuer,
		tokenTTL:  cfg.TokenTTL,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// ResolveToken maps a raw bearer token to the acting user.
func (service *AuthService) ResolveToken(ctx context.Context, raw string) (models.User, error) {
	if raw == "" {
		return models.User{}, ErrInvalidToken
	}

	if user, err := service.resolveIdentityToken(ctx, raw); err == nil {
		return user, nil
	}
	return service.resolveAPIToken(ctx, raw)
}

func (service *AuthService) resolveIdentityToken(ctx context.Context, raw string) (models.User, error) {
	var claims userClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(token *jwt.Token) (any, error) { return service.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
	)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return models.User{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return service.provisionUser(ctx, claims.Subject, claims.Email, claims.Name)
}

func (service *AuthService) resolveAPIToken(ctx context.Context, raw string) (models.User, error) {
	token, err := service.tokenRepo.FindByTokenHash(ctx, repository.HashToken(raw))
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	if token.ExpiresAt != nil && token.ExpiresAt.Before(time.Now()) {
		return models.User{}, ErrInvalidToken
	}

	user, err := service.userRepo.FindByID(ctx, token.CreatedByUserID)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	return user, nil
}

// provisionUser finds the user for an identity subject, creating one on
// first sight. The first provisioned user becomes the admin.
func (service *AuthService) provisionUser(ctx context.Context, subject, email, name string) (models.User, error) {
	existing, err := service.userRepo.FindBySubject(ctx, subject)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("looking up user: %w", err)
	}

	userCount, err := service.userRepo.Count(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("counting users: %w", err)
	}
	role := models.RoleMember
	if userCount == 0 {
		role = models.RoleAdmin
	}

	created, err := service.userRepo.Create(ctx, models.User{
		Subject: subject,
		Email:   email,
		Name:    name,
		Role:    role,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("provisioned new user", "id", created.ID, "name", created.Name, "role", created.Role)
	return created, nil
}

// IssueToken mints an identity JWT for a user, mainly for local setups and
// tests; production deployments use the external identity provider.
func (service *AuthService) IssueToken(user models.User) (string, error) {
	now := time.Now()
	claims := userClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    service.issuer,
			Subject:   user.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(service.tokenTTL)),
		},
		Email: user.Email,
		Name:  user.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
