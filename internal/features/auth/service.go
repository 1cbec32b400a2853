package auth

import (
	"context"
	"errors"
	"fmt"

	"files-manager/internal/cache"
	"files-manager/internal/common/models"
	"files-manager/internal/config"
	"files-manager/internal/features/user"
	"files-manager/internal/metrics"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type SessionService interface {
	// Verify resolves token to its user id without touching the session's lifetime.
	Verify(ctx context.Context, token string) (primitive.ObjectID, error)
	// Connect checks credentials and mints a session token.
	Connect(ctx context.Context, email, password string) (string, error)
	// Disconnect revokes a valid token.
	Disconnect(ctx context.Context, token string) error
}

type SessionServiceImpl struct {
	Cache       cache.Cache
	UserRepo    user.UserRepository
	UserService user.UserService
	Config      *config.Config
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

func NewSessionService(
	c cache.Cache,
	userRepo user.UserRepository,
	userService user.UserService,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) SessionService {
	return &SessionServiceImpl{
		Cache:       c,
		UserRepo:    userRepo,
		UserService: userService,
		Config:      cfg,
		Metrics:     m,
		Logger:      logger,
	}
}

func (s *SessionServiceImpl) key(token string) string {
	return s.Config.SessionKeyPrefix + token
}

func (s *SessionServiceImpl) Verify(ctx context.Context, token string) (primitive.ObjectID, error) {
	id, err := s.verify(ctx, token)
	switch {
	case err == nil:
		s.Metrics.RecordSessionCheck("ok")
	case errors.Is(err, models.ErrUnauthenticated):
		s.Metrics.RecordSessionCheck("unauthenticated")
	default:
		s.Metrics.RecordSessionCheck("error")
	}
	return id, err
}

func (s *SessionServiceImpl) verify(ctx context.Context, token string) (primitive.ObjectID, error) {
	if token == "" {
		return primitive.NilObjectID, models.ErrUnauthenticated
	}

	raw, err := s.Cache.Get(ctx, s.key(token))
	if errors.Is(err, cache.ErrMiss) {
		return primitive.NilObjectID, models.ErrUnauthenticated
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("read session: %w", err)
	}

	userID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		s.Logger.Warn("session maps to malformed user id", zap.String("value", raw))
		return primitive.NilObjectID, models.ErrUnauthenticated
	}

	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return primitive.NilObjectID, models.ErrUnauthenticated
		}
		return primitive.NilObjectID, fmt.Errorf("lookup session user: %w", err)
	}
	return userID, nil
}

func (s *SessionServiceImpl) Connect(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", models.ErrUnauthenticated
	}

	u, err := s.UserService.Authenticate(ctx, email, password)
	if errors.Is(err, user.ErrNotFound) {
		return "", models.ErrUnauthenticated
	}
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}

	token := uuid.NewString()
	if err := s.Cache.Set(ctx, s.key(token), u.ID.Hex(), s.Config.SessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *SessionServiceImpl) Disconnect(ctx context.Context, token string) error {
	if _, err := s.Verify(ctx, token); err != nil {
		return err
	}
	if err := s.Cache.Del(ctx, s.key(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
