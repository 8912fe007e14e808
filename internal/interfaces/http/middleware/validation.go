package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/erp/contable/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// patternTag is a binding tag checked with a regular expression
type patternTag struct {
	pattern *regexp.Regexp
	message string
}

var patternTags = map[string]patternTag{
	// account and cost center codes: "1", "1.1", "1.1.01"
	"codigo": {regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`), "Must be digits separated by dots"},
	// RUC: identity number with an optional check digit, "80012345-6"
	"ruc": {regexp.MustCompile(`^[0-9]{1,12}(-[0-9])?$`), "Must be a RUC such as 80012345-6"},
}

// SetupValidator makes gin report json (or form) field names and registers
// the pattern tags.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	v.RegisterTagNameFunc(fieldName)

	for tag, pt := range patternTags {
		pattern := pt.pattern
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pattern.MatchString(fl.Field().String())
		})
		if err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		}
		return name
	}
	return ""
}

// ValidationDetails lists one detail per failed field. Errors other than
// validator errors, such as malformed JSON, yield nil.
func ValidationDetails(err error) []dto.ValidationDetail {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	details := make([]dto.ValidationDetail, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = dto.ValidationDetail{Field: fe.Field(), Message: validationMessage(fe)}
	}
	return details
}

func validationMessage(fe validator.FieldError) string {
	if pt, ok := patternTags[fe.Tag()]; ok {
		return pt.message
	}

	p := fe.Param()
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "uuid":
		return "Invalid UUID format"
	case "numeric":
		return "Must be numeric"
	case "oneof":
		return "Must be one of: " + p
	case "len":
		return "Must be exactly " + p + " characters"
	case "min", "max":
		bound := map[string]string{"min": "at least", "max": "at most"}[fe.Tag()]
		switch fe.Kind() {
		case reflect.String:
			return "Must be " + bound + " " + p + " characters"
		case reflect.Slice:
			return "Must contain " + bound + " " + p + " items"
		}
		return "Must be " + bound + " " + p
	}
	return "Invalid value"
}
