package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/rooted/analytics/internal/interfaces/http/dto"
)

// SetupValidator makes binding errors report the JSON (or form) name of a
// field instead of its Go name
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			switch name {
			case "-":
				return ""
			case "":
				continue
			}
			return name
		}
		return ""
	})
}

// ValidationDetails renders a binding error as "field: message" pairs.
// Decoding errors are returned as is.
func ValidationDetails(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	var b strings.Builder
	for i, fe := range verrs {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(fe.Namespace())
		b.WriteString(": ")
		b.WriteString(fieldMessage(fe))
	}
	return b.String()
}

// HandleValidationError answers 400 for a request that failed binding, or
// 413 when the body was cut off by BodyLimit
func HandleValidationError(c *gin.Context, err error) {
	if AbortIfTooLarge(c, err) {
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body", ValidationDetails(err)))
}

func fieldMessage(fe validator.FieldError) string {
	p := fe.Param()
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return "Must be one of: " + p
	case "min", "max":
		bound := "least"
		if fe.Tag() == "max" {
			bound = "most"
		}
		switch fe.Kind() {
		case reflect.String:
			return "Must be at " + bound + " " + p + " characters"
		case reflect.Slice, reflect.Array:
			return "Must contain at " + bound + " " + p + " item(s)"
		}
		return "Must be at " + bound + " " + p
	case "datetime":
		return "Must be a date formatted " + p
	}
	return "Invalid value"
}
