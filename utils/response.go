package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motel-backend/services"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, gin.H{"success": false, "error": message, "code": errCode})
}

// HTTPStatus maps an error kind to its response status.
func HTTPStatus(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict, services.KindConcurrency:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// JSONServiceError writes err in the failure envelope. Persistence details
// stay in the log, not in the response.
func JSONServiceError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	status := HTTPStatus(kind)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal error"
	}
	JSONError(c, status, services.CodeOf(err), message)
}
