// Package respond writes the JSON error bodies shared by every handler.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/apperr"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/logging"
)

const internalMessage = "internal server error"

// Error maps err onto a status code and aborts the request with its body.
// Anything outside the apperr taxonomy, and internal errors, are logged and
// reported with a generic message.
func Error(c *gin.Context, log *zap.Logger, err error) {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		logging.For(c.Request.Context(), log).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalMessage})
		return
	}

	switch e.Kind {
	case apperr.KindValidation:
		fields := e.Fields
		if fields == nil {
			fields = []apperr.FieldError{}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": e.Message, "errors": fields})
	case apperr.KindUnauthorized:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": e.Message})
	case apperr.KindNotFound:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": e.Message})
	}
}

// InvalidBody reports a request body that could not be bound. A field with
// the wrong JSON type is reported as a validation error on that field;
// anything else that is not the expected JSON gets a generic message.
func InvalidBody(c *gin.Context, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		msg := fmt.Sprintf("%s must be a %s", typeErr.Field, jsonTypeName(typeErr.Type))
		Error(c, nil, apperr.Field(typeErr.Field, msg))
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "valid value"
	}
}

// Internal is the body written for recovered panics.
func Internal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalMessage})
}
