package middleware

import (
	"context"
	"errors"

	"files-manager/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TokenHeader carries the opaque session token.
const TokenHeader = "X-Token"

// SessionVerifier resolves a session token to the owning user id.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (primitive.ObjectID, error)
}

// SessionMiddleware rejects requests without a valid X-Token and stores the
// verified user id under models.UserIDKey.
func SessionMiddleware(verifier SessionVerifier, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := verifier.Verify(c.UserContext(), c.Get(TokenHeader))
		if err != nil {
			if errors.Is(err, models.ErrUnauthenticated) {
				return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Unauthorized"})
			}
			log.Error("session verification failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Internal server error"})
		}

		c.Locals(models.UserIDKey, userID)
		return c.Next()
	}
}

// CurrentUserID returns the id stored by SessionMiddleware.
func CurrentUserID(c *fiber.Ctx) (primitive.ObjectID, bool) {
	id, ok := c.Locals(models.UserIDKey).(primitive.ObjectID)
	return id, ok
}
