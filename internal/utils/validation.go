package utils

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"medminder/internal/models"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidations adds the custom binding tags to gin's validator:
// clock accepts a time of day such as 08:30.
func RegisterValidations() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected binding validator engine")
			return
		}
		registerErr = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, _, err := models.ParseClock(fl.Field().String())
			return err == nil
		})
	})
	return registerErr
}

// FormatValidationError formats validation errors into a readable string.
func FormatValidationError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters long", e.Field(), e.Param()))
		case "clock":
			messages = append(messages, fmt.Sprintf("%s must be a time of day (HH:MM)", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return strings.Join(messages, ", ")
}

// BindAndValidate binds a JSON or form body to obj and runs its binding
// rules. If that fails, it sends a BadRequest response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		BadRequest(c, "Validation failed: "+FormatValidationError(err))
		return false
	}
	return true
}
