package user

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users []*User
}

func (r *memoryUserRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memoryUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

func newTestService() (*UserServiceImpl, *memoryUserRepo) {
	repo := &memoryUserRepo{}
	return &UserServiceImpl{UserRepo: repo, Logger: zap.NewNop()}, repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "bob@dylan.com", "toto1234!")
	require.NoError(t, err)
	assert.False(t, u.ID.IsZero())
	assert.Equal(t, "bob@dylan.com", u.Email)

	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "toto1234!", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("toto1234!")))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrMissingEmail)

	_, err = svc.Register(ctx, "a@b.c", "")
	assert.ErrorIs(t, err, ErrMissingPassword)

	_, err = svc.Register(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "a@b.c", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "a@b.c", "secret")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.Authenticate(ctx, "a@b.c", "wrong")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Authenticate(ctx, "nobody@b.c", "secret")
	assert.ErrorIs(t, err, ErrNotFound)
}
