package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags shared by the request payloads.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Configure(v)
	}
}

func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("pwd", "min=8")                     // password minimum length
	v.RegisterAlias("username", "max=64,excludesall=/") // usable in /profiles/:username
}

// ToDetails converts validation/binding errors into field -> messages, the
// shape of the RealWorld error body.
func ToDetails(err error) map[string][]string {
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return map[string][]string{"body": {"request body is empty"}}
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string][]string{"body": {"invalid json"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			field := fe.Field()
			out[field] = append(out[field], formatFieldError(fe))
		}
		return out
	}

	return map[string][]string{"body": {"invalid payload"}}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "can't be blank"
	case "required_with":
		return "is required when " + param + " is present"
	case "required_without":
		return "is required when " + param + " is not present"

	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uri":
		return "must be a valid URI"

	case "alphanum":
		return "must contain alphanumeric characters only"
	case "excludesall":
		return "must not contain any of '" + param + "'"
	case "unique":
		return "must contain unique items"
	case "dive":
		return "array validation failed"

	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		if kind == reflect.Slice {
			return "must have at least " + param + " items"
		}
		return "is too short (minimum is " + param + " characters)"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		if kind == reflect.Slice {
			return "must have at most " + param + " items"
		}
		return "is too long (maximum is " + param + " characters)"
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")

	case "pwd":
		return "is too short (minimum is 8 characters)"
	case "username":
		return "must be at most 64 characters without slashes"

	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
