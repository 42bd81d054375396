package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondUnprocessable(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondUnprocessable(rec, ReasonInvalidCategory, "category 3000 does not exist")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, 422, body.Error)
	assert.Equal(t, "Unprocessable Entity", body.Message)
	assert.Equal(t, ReasonInvalidCategory, body.Reason)
	assert.Equal(t, "category 3000 does not exist", body.Detail)
}

func TestRespondInternalErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondInternalError(rec)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.Equal(t, false, body["success"])
	_, hasDetail := body["detail"]
	assert.False(t, hasDetail)
}
