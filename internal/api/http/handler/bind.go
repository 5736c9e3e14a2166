package handler

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
)

// fieldMessages maps a JSON field name, or "field.tag" for a single rule, to the
// message reported when it fails validation.
type fieldMessages map[string]string

var registerNames sync.Once

// useJSONNames makes validation errors report JSON field names.
func useJSONNames() {
	registerNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// bindJSON decodes the body into req and validates it. An empty body is
// validated as an empty object so required fields get their own message.
func bindJSON(c *gin.Context, req any, messages fieldMessages) error {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(req)
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldError(verrs[0].Field(), verrs[0].Tag(), messages)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fieldError(typeErr.Field, "", messages)
	}

	return apierror.NewErrValidation("Invalid request body")
}

func fieldError(field, tag string, messages fieldMessages) error {
	if msg, ok := messages[field+"."+tag]; ok && tag != "" {
		return apierror.NewErrValidation(msg)
	}
	if msg, ok := messages[field]; ok {
		return apierror.NewErrValidation(msg)
	}
	return apierror.NewErrValidation("Invalid value for " + field)
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apierror.NewErrValidation("Invalid " + what + " ID")
	}
	return id, nil
}
