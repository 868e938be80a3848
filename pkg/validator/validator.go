package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report json names so error keys match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("clock", validateClock)
	_ = v.RegisterValidation("date", validateDate)
	_ = v.RegisterValidation("permission", validatePermission)
	_ = v.RegisterValidation("role", validateRole)
	_ = v.RegisterValidation("status", validateStatus)
	_ = v.RegisterValidation("weekday", validateWeekday)

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "clock":
				errors[field] = field + " must be a time in HH:mm format"
			case "date":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "permission":
				errors[field] = field + " contains an unknown permission"
			case "role":
				errors[field] = field + " must be one of: admin receptionist doctor"
			case "status":
				errors[field] = field + " must be one of: scheduled in-session completed return-visit cancelled"
			case "weekday":
				errors[field] = field + " must be an English weekday name"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := time.Parse(entity.ClockLayout, fl.Field().String())
	return err == nil && len(fl.Field().String()) == len(entity.ClockLayout)
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(entity.DateLayout, fl.Field().String())
	return err == nil
}

func validatePermission(fl validator.FieldLevel) bool {
	return entity.Permission(fl.Field().String()).IsValid()
}

func validateRole(fl validator.FieldLevel) bool {
	return entity.Role(fl.Field().String()).IsValid()
}

func validateStatus(fl validator.FieldLevel) bool {
	return entity.AppointmentStatus(fl.Field().String()).IsValid()
}

func validateWeekday(fl validator.FieldLevel) bool {
	return entity.IsWeekdayName(fl.Field().String())
}
