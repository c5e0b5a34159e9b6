package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type structValidator struct {
	v *validator.Validate
}

// NewStructValidator plugs validate tags into fiber's Bind().
func NewStructValidator() fiber.StructValidator {
	return &structValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (s *structValidator) Validate(out any) error {
	return s.v.Struct(out)
}
