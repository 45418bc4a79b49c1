package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration against the struct validation tags.
func Validate(cfg *Config) error {
	v := validator.New()

	if err := v.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range errs {
				return fmt.Errorf("invalid value for %s: failed %q constraint",
					fieldErr.Namespace(), fieldErr.Tag())
			}
		}
		return err
	}

	return nil
}
