package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/example/topupadmin/internal/utils"
)

const operatorContextKey = "currentOperatorID"

// AuthMiddleware validates operator JWTs and loads the operator ID into context.
func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		operator, err := utils.ParseToken(secret, parts[1])
		if errors.Is(err, utils.ErrNotOperator) {
			return fiber.NewError(fiber.StatusForbidden, "operator role required")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(operatorContextKey, operator.ID)

		ctx := c.UserContext()
		logger := zerolog.Ctx(ctx).With().Str("operator", operator.ID).Logger()
		c.SetUserContext(logger.WithContext(ctx))

		return c.Next()
	}
}

// GetOperatorID extracts the authenticated operator ID from context.
func GetOperatorID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(operatorContextKey).(string)
	return id, ok && id != ""
}
