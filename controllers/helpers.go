package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"motel-backend/utils"
)

const codeInvalidRequest = "INVALID_REQUEST"

// paramID parses the :id path parameter, writing a 400 when it is not a
// positive integer.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, codeInvalidRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, codeInvalidRequest, "invalid request payload: "+err.Error())
		return false
	}
	return true
}

func respond(c *gin.Context, status int, data interface{}, err error) {
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, status, data)
}

