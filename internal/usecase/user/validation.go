package user

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	pkgerrors "user-rest-service/pkg/errors"
)

var phoneRegexp = regexp.MustCompile(`^\d{10}$`)

// newValidator builds a validator with the custom rules registered:
// "adult" (minimum whole-year age on a birth date) and "phone"
// (exactly 10 digits).
func newValidator(minAdultAge int) *validator.Validate {
	v := validator.New()

	// Registration only fails for nil funcs or empty tags.
	_ = v.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		birthDate, ok := fl.Field().Interface().(time.Time)
		if !ok || birthDate.IsZero() {
			return true
		}
		return ageInYears(birthDate, time.Now()) >= minAdultAge
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegexp.MatchString(fl.Field().String())
	})

	return v
}

// ageInYears returns the whole calendar years between birthDate and now,
// by year/month/day subtraction rather than elapsed time.
func ageInYears(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		years--
	}
	return years
}

// fieldNames maps request struct fields to their client-facing names.
var fieldNames = map[string]string{
	"ID":          "id",
	"Email":       "email",
	"FirstName":   "first_name",
	"LastName":    "last_name",
	"BirthDate":   "birth_date",
	"Address":     "address",
	"PhoneNumber": "phone_number",
}

// formatValidationError converts validator.ValidationErrors into a typed
// ValidationError with one "field: message" entry per violated rule.
func (s *Service) formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	violations := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := fieldNames[e.StructField()]
		if field == "" {
			field = e.StructField()
		}

		var message string
		switch e.Tag() {
		case "required":
			message = "is required"
		case "email":
			message = "must be a valid email address"
		case "min":
			message = fmt.Sprintf("must be at least %s characters", e.Param())
		case "max":
			message = fmt.Sprintf("must be at most %s characters", e.Param())
		case "lt":
			message = "must be in the past"
		case "adult":
			message = fmt.Sprintf("user must be at least %d years old", s.minAdultAge)
		case "phone":
			message = "must be exactly 10 digits"
		default:
			message = "is invalid"
		}

		violations = append(violations, fmt.Sprintf("%s: %s", field, message))
	}

	return pkgerrors.NewValidationError(violations...)
}
