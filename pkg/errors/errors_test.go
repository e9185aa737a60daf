package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusBadRequest, KindBadRequest},
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindConflict},
		{http.StatusInternalServerError, KindServer},
		{http.StatusServiceUnavailable, KindServer},
		{599, KindServer},
		{http.StatusTooManyRequests, KindUnknown},
		{http.StatusRequestEntityTooLarge, KindUnknown},
		{http.StatusTeapot, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, KindForStatus(tt.status))
		})
	}
}

func TestFromResponseMessage(t *testing.T) {
	t.Run("server message overrides default", func(t *testing.T) {
		e := FromResponse(http.StatusBadRequest, []byte(`{"error":"comment must be 1-500 characters","code":"VALIDATION_ERROR","field":"content"}`))
		assert.Equal(t, KindBadRequest, e.Kind)
		assert.Equal(t, "comment must be 1-500 characters", e.Message)
		assert.Equal(t, "VALIDATION_ERROR", e.Code)
		assert.Equal(t, http.StatusBadRequest, e.StatusCode)
	})

	t.Run("empty error keeps default", func(t *testing.T) {
		e := FromResponse(http.StatusConflict, []byte(`{"error":"   "}`))
		assert.Equal(t, DefaultMessage(KindConflict), e.Message)
	})

	t.Run("non-string error keeps default", func(t *testing.T) {
		e := FromResponse(http.StatusNotFound, []byte(`{"error":{"nested":true}}`))
		assert.Equal(t, DefaultMessage(KindNotFound), e.Message)
	})

	t.Run("undecodable body keeps default", func(t *testing.T) {
		e := FromResponse(http.StatusBadGateway, []byte(`<html>bad gateway</html>`))
		assert.Equal(t, KindServer, e.Kind)
		assert.Equal(t, DefaultMessage(KindServer), e.Message)
	})

	t.Run("details are kept", func(t *testing.T) {
		e := FromResponse(http.StatusInternalServerError, []byte(`{"error":"internal server error","details":"db down"}`))
		assert.Equal(t, "db down", e.Details)
	})
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))

	original := FromResponse(http.StatusForbidden, nil)
	wrapped := fmt.Errorf("delete post: %w", original)
	assert.Same(t, original, Classify(wrapped))

	assert.Equal(t, KindNetwork, Classify(context.Canceled).Kind)
	assert.Equal(t, KindNetwork, Classify(fmt.Errorf("get: %w", context.DeadlineExceeded)).Kind)

	plain := errors.New("boom")
	e := Classify(plain)
	assert.Equal(t, KindUnknown, e.Kind)
	assert.ErrorIs(t, e, plain)
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("like: %w", FromResponse(http.StatusConflict, []byte(`{"error":"like already exists"}`)))
	assert.ErrorIs(t, err, &Error{Kind: KindConflict})
	assert.NotErrorIs(t, err, &Error{Kind: KindNotFound})
	assert.True(t, IsKind(err, KindConflict))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "That no longer exists. (NOT_FOUND, HTTP 404)", Format(FromResponse(http.StatusNotFound, nil)))

	line := Format(Network(errors.New("dial tcp: connection refused")))
	require.NotEmpty(t, line)
	assert.Contains(t, line, string(KindNetwork))
}
