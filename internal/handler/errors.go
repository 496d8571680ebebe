package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON binds the request body into req and writes a 400 with per-field
// messages on validation failure. Field names in the response come from the
// json tags, not the Go struct fields. Returns false when the request has
// already been answered.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		t := reflect.TypeOf(req).Elem()
		for _, fe := range verrs {
			out[jsonName(t, fe.Field())] = validationMessage(fe)
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": out})
		return false
	}

	// malformed JSON; never echo the body back
	c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
	return false
}

func jsonName(t reflect.Type, fieldName string) string {
	f, ok := t.FieldByName(fieldName)
	if !ok {
		return fieldName
	}
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return fieldName
	}
	return strings.Split(tag, ",")[0]
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "invalid value"
}

// fieldError answers a 400 carrying a single field-scoped message.
func fieldError(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{field: message}})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
