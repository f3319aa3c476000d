package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yatube/yatube/pkg/logging"
)

// notFound writes the not-found response for unknown posts, groups and
// profiles
func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
}

// validationFailed writes field-level validation messages
func validationFailed(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
}

// serverError logs the error and writes a generic failure response
func serverError(c *gin.Context, err error) {
	logging.GetLogger().Error("Request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
}

// bindForm binds a form struct and translates validator failures into
// per-field messages. Returns nil, true when the form is valid.
func bindForm(c *gin.Context, form interface{}) (map[string]string, bool) {
	err := c.ShouldBind(form)
	if err == nil {
		return nil, true
	}

	fields := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
		}
	} else {
		fields["__all__"] = "invalid form data"
	}
	return fields, false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	default:
		return "invalid value"
	}
}
