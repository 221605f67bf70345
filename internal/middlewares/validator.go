package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"backoffice/internal/helpers"
	"backoffice/internal/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// Validate decodes the JSON body into T, validates it and stores it under models.BodyKey.
func Validate[T any](next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		var data T
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			GetLogger(r.Context()).Debug("Invalid request body", zap.Error(err))
			helpers.RespondWithError(w, http.StatusBadRequest, []string{"BAD_REQUEST"})
			return
		}

		if err := validate.Struct(data); err != nil {
			helpers.RespondWithError(w, http.StatusBadRequest, formatErrors(err))
			return
		}

		ctx := context.WithValue(r.Context(), models.BodyKey{}, data)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}

// ValidateQuery decodes query parameters into T by json tag, validates it and
// stores it under models.QueryKey. Only string, integer and bool fields are filled.
func ValidateQuery[T any](next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		var data T
		if err := decodeQuery(r.URL.Query(), &data); err != nil {
			helpers.RespondWithError(w, http.StatusBadRequest, []string{err.Error()})
			return
		}

		if err := validate.Struct(data); err != nil {
			helpers.RespondWithError(w, http.StatusBadRequest, formatErrors(err))
			return
		}

		ctx := context.WithValue(r.Context(), models.QueryKey{}, data)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}

func decodeQuery(values url.Values, target any) error {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" || !values.Has(name) {
			continue
		}
		raw := values.Get(name)

		switch field.Type.Kind() {
		case reflect.String:
			v.Field(i).SetString(raw)
		case reflect.Int, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("INVALID_%s", strings.ToUpper(name))
			}
			v.Field(i).SetInt(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("INVALID_%s", strings.ToUpper(name))
			}
			v.Field(i).SetBool(b)
		}
	}
	return nil
}

func formatErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{"BAD_REQUEST"}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return messages
}
