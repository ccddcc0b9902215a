package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// FromBusiness maps a business error kind to the proper HTTP status.
// Anything that is not a BusinessError falls back to a 500 with the
// given code so raw store errors never leak to clients.
func FromBusiness(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	be, ok := AsBusiness(err)
	if !ok {
		Internal(c, fallbackCode, fallbackMessage)
		return
	}

	switch be.Kind {
	case KindValidation:
		BadRequest(c, be.Code, be.Message)
	case KindNotFound:
		NotFound(c, be.Code, be.Message)
	case KindAuthRequired:
		Unauthorized(c, be.Code, be.Message)
	case KindTransient:
		Write(c, http.StatusServiceUnavailable, be.Code, be.Message)
	default:
		Internal(c, be.Code, be.Message)
	}
}
