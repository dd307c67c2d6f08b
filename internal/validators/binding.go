package validators

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	TagPlate = "twplate"
	TagPhone = "twphone"
)

// RegisterBindings adds the twplate and twphone tags to gin's validator.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation(TagPlate, func(fl validator.FieldLevel) bool {
		return ValidateLicensePlate(fl.Field().String()) == nil
	}); err != nil {
		return err
	}

	return v.RegisterValidation(TagPhone, func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String()) == nil
	})
}
