package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator создает валидатор на базе go-playground/validator.
// В сообщениях об ошибках используются имена полей из json-тегов.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate запускает проверку структуры по тегам и возвращает первую ошибку поля.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	first := fieldErrs[0]
	switch first.Tag() {
	case "required", "required_without":
		return fmt.Errorf("%s is required", first.Field())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", first.Field(), first.Param())
	case "gte":
		return fmt.Errorf("%s must be at least %s", first.Field(), first.Param())
	default:
		return fmt.Errorf("%s is invalid", first.Field())
	}
}
