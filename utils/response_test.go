package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motel-backend/services"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(services.KindValidation))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(services.KindNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(services.KindConflict))
	assert.Equal(t, http.StatusConflict, HTTPStatus(services.KindConcurrency))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(services.KindPersistence))
}

func TestJSONServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{services.ErrRoomNotAvailable.With("room 101 is OCUPADA"), http.StatusConflict, "ROOM_NOT_AVAILABLE", "ROOM_NOT_AVAILABLE: room 101 is OCUPADA"},
		{services.ErrStayNotFound, http.StatusNotFound, "STAY_NOT_FOUND", "STAY_NOT_FOUND: stay not found"},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "PERSISTENCE_ERROR", "internal error"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		JSONServiceError(c, tt.err)

		assert.Equal(t, tt.status, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, tt.code, body["code"])
		assert.Equal(t, tt.message, body["error"])
	}
}
