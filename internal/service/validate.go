package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campdir/backend/internal/domain"
)

// validate checks the `validate` struct tags on domain types. Field names in
// errors are the JSON names, so violations read the way clients sent them.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("career", func(fl validator.FieldLevel) bool {
		return domain.Career(fl.Field().String()).Valid()
	})
	return v
}

// violationMessages maps "<field>.<tag>" to the message a client sees.
var violationMessages = map[string]string{
	"user.required":        "Please add a user",
	"name.required":        "Please add a name",
	"description.required": "Please add a description",
	"description.max":      "Description can not be longer than 1000 characters",
	"website.http_url":     "Please use a valid URL with HTTP or HTTPS",
	"phone.max":            "Phone number can not be longer than 20 characters",
	"email.required":       "Please add an email address",
	"email.email":          "Please add a valid email",
	"careers.required":     "Please select at least one relevant career",
	"careers.min":          "Please select at least one relevant career",
	"careers.unique":       "Each career can only be selected once",
	"averageRating.min":    "Rating must be at least 1",
	"averageRating.max":    "Rating can not be more than 5",

	"camp.required":       "Please add a camp",
	"title.required":      "Please add a course title",
	"duration.required":   "Please specify a duration for the course",
	"tuition.required":    "Please add a tuition cost",
	"tuition.gte":         "Tuition can not be negative",
	"difficulty.required": "Please specify difficulty level",
	"difficulty.oneof":    "Difficulty must be one of beginner, intermediate or advanced",
}

// validateStruct runs the tag rules on v and converts failures into a
// *domain.ValidationError with one message per offending field.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	out := &domain.ValidationError{}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, domain.FieldViolation{
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}
	return out
}

func violationMessage(fe validator.FieldError) string {
	if fe.Tag() == "career" {
		return fmt.Sprintf("%q is not a valid career", fe.Value())
	}
	// Element errors ("careers[2]") share the message of their slice field.
	field, _, _ := strings.Cut(fe.Field(), "[")
	if msg, ok := violationMessages[field+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// validateFilter checks the query-level rules of a camp listing.
func validateFilter(f domain.CampFilter) error {
	out := &domain.ValidationError{}
	if f.Career != nil && !f.Career.Valid() {
		out.Violations = append(out.Violations, domain.FieldViolation{
			Field:   "career",
			Message: fmt.Sprintf("%q is not a valid career", string(*f.Career)),
		})
	}
	if f.Near != nil {
		if f.RadiusKm <= 0 {
			out.Violations = append(out.Violations, domain.FieldViolation{
				Field: "radius_km", Message: "radius_km must be greater than 0",
			})
		}
		if f.Near.Lon < -180 || f.Near.Lon > 180 || f.Near.Lat < -90 || f.Near.Lat > 90 {
			out.Violations = append(out.Violations, domain.FieldViolation{
				Field: "lon", Message: "lon/lat must be a valid coordinate",
			})
		}
	}
	if len(out.Violations) > 0 {
		return out
	}
	return nil
}
