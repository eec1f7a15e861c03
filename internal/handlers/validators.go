package handlers

import (
	"errors"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidators adds the domain enum checks used in binding tags.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}

	validations := map[string]validator.Func{
		"normal_side": func(fl validator.FieldLevel) bool {
			return domain.NormalSide(fl.Field().String()).IsValid()
		},
		"account_category": func(fl validator.FieldLevel) bool {
			return domain.AccountCategory(fl.Field().String()).IsValid()
		},
		"entry_status": func(fl validator.FieldLevel) bool {
			return domain.EntryStatus(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
