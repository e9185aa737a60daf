package util

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/picfeed/internal/models"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  sunset at the pier  ", "sunset at the pier"},
		{"if a<b then c", "if a<b then c"},
		{"I <3 this and x<y z", "I <3 this and x<y z"},
		{"<b>bold</b> move", "<b>bold</b> move"},
		{"fish &amp; chips", "fish &amp; chips"},
		{"line one\nline two\tend", "line one\nline two\tend"},
		{"\x1b[31mred\x1b[0m", "[31mred[0m"},
		{"bad \xff byte", "bad  byte"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeCaption(t *testing.T) {
	c, err := NormalizeCaption("   ")
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = NormalizeCaption("  a<b, always  ")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "a<b, always", *c)

	_, err = NormalizeCaption(strings.Repeat("a", models.MaxCaptionLength))
	assert.NoError(t, err)

	_, err = NormalizeCaption(strings.Repeat("<", models.MaxCaptionLength+1))
	assert.Error(t, err)
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 1))
	assert.Equal(t, 1, ParseInt("five", 1))
	assert.Equal(t, 1, ParseInt("", 1))
}

func TestRespondServerErrorHidesDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(expose bool) map[string]any {
		ExposeErrorDetails = expose
		defer func() { ExposeErrorDetails = false }()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		RespondServerError(c, stderrors.New("connection reset"), "failed to load feed")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	hidden := run(false)
	assert.Equal(t, "internal server error", hidden["error"])
	assert.Equal(t, "SERVER_ERROR", hidden["code"])
	assert.NotContains(t, hidden, "details")

	shown := run(true)
	assert.Contains(t, shown["details"], "connection reset")
}

func TestGetUserIDFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	_, ok := GetUserIDFromContext(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Set(UserIDKey, "user-1")
	id, ok := GetUserIDFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)
}
