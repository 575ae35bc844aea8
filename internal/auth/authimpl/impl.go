package authimpl

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/satyapal28/archive-server/internal/auth"
	"github.com/satyapal28/archive-server/internal/repositories/adminrole"
	"github.com/satyapal28/archive-server/pkg/config"
	"github.com/satyapal28/archive-server/pkg/errors"
	"github.com/satyapal28/archive-server/pkg/logger"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type Opts struct {
	fx.In

	AdminRepo adminrole.Repository
	Config    *config.Config
	Logger    logger.Logger
}

type Impl struct {
	admins    adminrole.Repository
	logger    logger.Logger
	secretKey []byte
	tokenTTL  time.Duration
}

func New(opts Opts) *Impl {
	return &Impl{
		admins:    opts.AdminRepo,
		logger:    opts.Logger.WithComponent("Auth"),
		secretKey: []byte(opts.Config.Auth.JwtSecret),
		tokenTTL:  time.Duration(opts.Config.Auth.TokenHours) * time.Hour,
	}
}

var _ auth.Client = (*Impl)(nil)

func (i *Impl) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailPattern.MatchString(email) {
		return "", errors.Wrap(errors.ErrInvalidInput, "malformed email")
	}
	if password == "" {
		return "", errors.Wrap(errors.ErrInvalidInput, "empty password")
	}

	user, err := i.admins.GetUserByEmail(ctx, email)
	if err != nil {
		// Unknown account and wrong password report the same thing.
		return "", errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
	}

	isAdmin, err := i.admins.IsAdmin(ctx, user.ID)
	if err != nil {
		return "", errors.Wrap(err, "check admin role")
	}
	if !isAdmin {
		i.logger.Warn("Login by non-admin account rejected", "email", email)
		return "", errors.Wrap(errors.ErrForbidden, "not an admin")
	}

	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secretKey)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return token, nil
}

func (i *Impl) Verify(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Wrap(errors.ErrUnauthorized, "unexpected signing method")
		}
		return i.secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", errors.Wrap(errors.ErrUnauthorized, "invalid token")
	}
	return claims.UserID, nil
}
