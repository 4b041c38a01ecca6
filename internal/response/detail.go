package response

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// The development API answers in the college API's shape: a bare JSON body
// on success and {"detail": ...} on failure, so the gateway client can't
// tell it apart from the real backend.

// DetailBody is a single-message error body.
type DetailBody struct {
	Detail string `json:"detail"`
}

// FieldError is one entry of a validation error list.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationBody is the 422 body listing every invalid field.
type ValidationBody struct {
	Detail []FieldError `json:"detail"`
}

// Detail sends {"detail": msg}.
func Detail(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, DetailBody{Detail: msg})
}

// AbortDetail aborts the middleware chain and sends {"detail": msg}.
func AbortDetail(c *gin.Context, statusCode int, msg string) {
	c.AbortWithStatusJSON(statusCode, DetailBody{Detail: msg})
}

// Invalid sends a 422 listing the translated field errors in field order.
func Invalid(c *gin.Context, statusCode int, fields map[string]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	body := ValidationBody{Detail: make([]FieldError, 0, len(names))}
	for _, name := range names {
		body.Detail = append(body.Detail, FieldError{
			Loc:  []string{"body", name},
			Msg:  fields[name],
			Type: "value_error",
		})
	}
	c.JSON(statusCode, body)
}
