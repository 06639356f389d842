package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"bookshelf/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

var registerTagNames sync.Once

// ErrorHandler renders the last error pushed with c.Error once the chain
// returns without having written a response.
func ErrorHandler() gin.HandlerFunc {
	registerTagNames.Do(useJSONFieldNames)

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		status, body := renderError(last)
		c.AbortWithStatusJSON(status, body)
	}
}

func renderError(ginErr *gin.Error) (int, ErrorResponse) {
	err := ginErr.Err

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		verr := &models.ValidationError{Fields: fields}
		return http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Code: "invalid", Fields: fields}
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Code: "invalid", Fields: verr.Fields}
	}

	if ginErr.IsType(gin.ErrorTypeBind) {
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "parse_error"}
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: capitalize(err.Error()), Code: "not_found"}
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: capitalize(err.Error()), Code: "not_authenticated"}
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "You do not have permission to perform this action.", Code: "permission_denied"}
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: capitalize(err.Error()), Code: "conflict"}
	}

	log.Printf("Unhandled error: %v", err)
	return http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Code: "error"}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte", "gt":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	}
	return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
}

// useJSONFieldNames makes validator report fields by their json names.
func useJSONFieldNames() {
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
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
