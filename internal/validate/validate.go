package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/config/settings.go
//   type Settings struct {
//       ...
//       DatabaseURL string `prop:"jdbc.url" validate:"omitempty,jdbcurl"`
//       ServerPort  string `prop:"server.port" validate:"omitempty,port"`
//   }
//
// Errors name fields by their `prop` tag so messages match the keys users write in properties files.

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// jdbcURLPattern matches jdbc:<subprotocol>:<subname>.
var jdbcURLPattern = regexp.MustCompile(`^jdbc:[A-Za-z0-9]+:\S+$`)

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("prop"), ",")
			if name == "" {
				return fld.Name
			}
			return name
		})
		// Registration only fails for empty tags or nil funcs.
		_ = v.RegisterValidation("jdbcurl", func(fl validator.FieldLevel) bool {
			return jdbcURLPattern.MatchString(fl.Field().String())
		})
		validatorInst = v
	})
	return validatorInst
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}

// Problems flattens a validation error into one readable line per failed
// field. Errors that are not validation errors are returned as-is.
func Problems(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			out = append(out, fmt.Sprintf("%s: %q fails %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
			continue
		}
		out = append(out, fmt.Sprintf("%s: %q fails %s", fe.Field(), fe.Value(), fe.Tag()))
	}
	return out
}
