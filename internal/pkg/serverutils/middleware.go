package serverutils

import (
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping controllers into the
// standard envelope instead of Fiber's default plain-text response.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

// AdminMiddleware gates operational endpoints behind a static bearer
// token. Constant-time compare so the token is not timing-probeable.
func AdminMiddleware(token string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing token"))
		}
		presented := authHeader[7:]
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid token"))
		}
		return ctx.Next()
	}
}
