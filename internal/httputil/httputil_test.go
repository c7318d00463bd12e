package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_SetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, 201, map[string]string{"a": "b"}))

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"a":"b"}`, rec.Body.String())
}

func TestWriteErrorMessage_Shape(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteNotFound(rec, "Item not found")

	assert.Equal(t, 404, rec.Code)
	assert.JSONEq(t, `{"detail":"Item not found"}`, rec.Body.String())
}

func TestParseJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}`))
	var dst struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(r, &dst))
	assert.Equal(t, "x", dst.Name)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))
	assert.Error(t, ParseJSON(r, &dst))
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?skip=10", nil)

	v, err := QueryInt(r, "skip", 0)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = QueryInt(r, "limit", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, v)

	r = httptest.NewRequest("GET", "/?skip=-2", nil)
	_, err = QueryInt(r, "skip", 0)
	assert.Error(t, err)

	r = httptest.NewRequest("GET", "/?skip=abc", nil)
	_, err = QueryInt(r, "skip", 0)
	assert.Error(t, err)
}

func TestQueryString(t *testing.T) {
	r := httptest.NewRequest("GET", "/?type=lost", nil)
	assert.Equal(t, "lost", QueryString(r, "type", ""))
	assert.Equal(t, "fallback", QueryString(r, "category", "fallback"))
}
