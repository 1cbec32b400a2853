package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"files-manager/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type stubVerifier struct {
	tokens map[string]primitive.ObjectID
	err    error
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (primitive.ObjectID, error) {
	if s.err != nil {
		return primitive.NilObjectID, s.err
	}
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return primitive.NilObjectID, models.ErrUnauthenticated
}

func newSessionApp(v SessionVerifier) *fiber.App {
	app := fiber.New()
	app.Get("/me", SessionMiddleware(v, zap.NewNop()), func(c *fiber.Ctx) error {
		id, ok := CurrentUserID(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(id.Hex())
	})
	return app
}

func TestSessionMiddleware(t *testing.T) {
	userID := primitive.NewObjectID()
	app := newSessionApp(&stubVerifier{tokens: map[string]primitive.ObjectID{"good": userID}})

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "missing token", token: "", status: fiber.StatusUnauthorized},
		{name: "unknown token", token: "nope", status: fiber.StatusUnauthorized},
		{name: "valid token", token: "good", status: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.token != "" {
				req.Header.Set(TokenHeader, tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestSessionMiddleware_CollaboratorFailure(t *testing.T) {
	app := newSessionApp(&stubVerifier{err: errors.New("redis: connection refused")})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set(TokenHeader, "anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
