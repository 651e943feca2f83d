package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	customError "github.com/segyhp/coal-settlement/pkg/errors"
	"github.com/segyhp/coal-settlement/pkg/response"
)

// NewValidator returns a validator that understands decimal amounts and
// reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return v
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// Failures come back as validation errors ready for writeError.
func decodeAndValidate(r *http.Request, v *validator.Validate, dst interface{}) error {
	if r.Body == nil {
		return customError.WrapValidation("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return customError.WrapValidation("invalid request body: %v", err)
	}
	if err := v.Struct(dst); err != nil {
		return customError.WrapValidation("%s", describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.SplitN(fe.Namespace(), ".", 2)
		name := fe.Field()
		if len(field) == 2 {
			name = field[1]
		}

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", name))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must not be negative", name))
		case "min":
			if fe.Kind() == reflect.String {
				msgs = append(msgs, fmt.Sprintf("%s must not be empty", name))
				continue
			}
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entries", name, fe.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be a YYYY-MM-DD date", name))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", name, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", name, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// writeError maps a service error onto a status code. Storage failures are
// logged with their cause and reported generically.
func writeError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	code := customError.StatusCode(err)
	if code >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	response.Error(w, code, customError.PublicMessage(err))
}
