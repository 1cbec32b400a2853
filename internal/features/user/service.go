package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingEmail    = errors.New("missing email")
	ErrMissingPassword = errors.New("missing password")
	ErrEmailTaken      = errors.New("email already registered")
)

type UserService interface {
	Register(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*User, error)
	// Authenticate returns the user owning email when password matches its hash.
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

type UserServiceImpl struct {
	UserRepo UserRepository
	Logger   *zap.Logger
}

func NewUserService(userRepo UserRepository, logger *zap.Logger) UserService {
	return &UserServiceImpl{
		UserRepo: userRepo,
		Logger:   logger,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	if _, err := s.UserRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{Email: email, Password: string(hash)}
	if err := s.UserRepo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Logger.Info("user registered", zap.String("user_id", u.ID.Hex()))
	return u, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return s.UserRepo.FindByID(ctx, id)
}

func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}
