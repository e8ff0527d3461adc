package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dashspec/engine/internal/models"
	"github.com/dashspec/engine/internal/repository"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/dashspec/engine/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Logout(ctx context.Context, token string) error
	// Verify returns the user id a valid, unrevoked token was issued to.
	Verify(ctx context.Context, token string) (uuid.UUID, error)
}

// TokenDenylist remembers revoked token ids until they would expire anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type authService struct {
	userRepo   repository.UserRepository
	hmacSecret []byte
	ttl        time.Duration
	denylist   TokenDenylist
	now        func() time.Time
}

// NewAuthService issues HS256 tokens valid for ttl. A nil denylist makes
// logout a client-side affair.
func NewAuthService(userRepo repository.UserRepository, secret []byte, ttl time.Duration, denylist TokenDenylist) AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{
		userRepo:   userRepo,
		hmacSecret: secret,
		ttl:        ttl,
		denylist:   denylist,
		now:        time.Now,
	}
}

var errInvalidCredentials = appErr.New(appErr.CodeUnauthorized, "invalid credentials")

func (s *authService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	logger.L().Info("register user", zap.String("email", email))

	var existing models.User
	err := s.userRepo.GetByEmail(ctx, email, &existing)
	if err == nil {
		return nil, appErr.New(appErr.CodeAlreadyExists, "email already registered")
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	ph, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(ph),
		Name:         name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.L().Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	if err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)), &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	tokenString, err := token.SignedString(s.hmacSecret)
	if err != nil {
		return "", nil, appErr.Wrap(err, appErr.CodeInternal, "sign token failed")
	}

	logger.L().Info("user logged in", zap.String("user_id", user.ID.String()))
	return tokenString, &user, nil
}

func (s *authService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.hmacSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}

func (s *authService) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.parse(token)
	if err != nil {
		return uuid.Nil, err
	}
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, appErr.Wrap(err, appErr.CodeUnauthorized, "invalid token subject")
	}
	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if revoked {
			return uuid.Nil, appErr.New(appErr.CodeUnauthorized, "token revoked")
		}
	}
	return uid, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if s.denylist == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}
	logger.L().Info("token revoked", zap.String("user_id", claims.Subject))
	return nil
}

// RedisTokenDenylist stores revoked token ids as expiring Redis keys.
type RedisTokenDenylist struct {
	rdb redis.UniversalClient
}

func NewRedisTokenDenylist(rdb redis.UniversalClient) *RedisTokenDenylist {
	return &RedisTokenDenylist{rdb: rdb}
}

func (d *RedisTokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := d.rdb.Set(ctx, "auth:revoked:"+tokenID, 1, ttl).Err(); err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "revoke token failed")
	}
	return nil
}

func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := d.rdb.Get(ctx, "auth:revoked:"+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, appErr.Wrap(err, appErr.CodeUnavailable, "check token failed")
	}
	return true, nil
}
