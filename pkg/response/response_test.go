package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "greentask/pkg/errors"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Success(c, map[string]int{"unreadCount": 2}))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
}

func TestError_AppError(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Error(c, apperrors.NotFound("notification", nil)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, apperrors.CodeNotFound, body.Error.Code)
	assert.Equal(t, "notification not found", body.Error.Message)
}

func TestError_ValidationError(t *testing.T) {
	type payload struct {
		Amount int64 `validate:"min=0"`
	}
	err := validator.New().Struct(payload{Amount: -5})
	require.Error(t, err)

	c, rec := newContext()
	require.NoError(t, Error(c, err))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "amount must be at least 0", body.Error.Message)
}

func TestError_Unknown(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Error(c, assert.AnError))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperrors.CodeInternal, decode(t, rec).Error.Code)
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2}, 5, 1, 2)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 0, NewPage(nil, 0, 1, 0).TotalPages)
}
