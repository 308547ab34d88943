package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ParseAndValidate decodes the request body into dst and runs struct tag
// validation, returning a 400-shaped error message on failure.
func ParseAndValidate(ctx *fiber.Ctx, dst interface{}) error {
	if err := ctx.BodyParser(dst); err != nil {
		return fmt.Errorf("malformed request body")
	}
	if err := validate.Struct(dst); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(ve.Field()), ve.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}
