package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampAttemptCount(t *testing.T) {
	assert.Equal(t, 1, ClampAttemptCount(0))
	assert.Equal(t, 1, ClampAttemptCount(-3))
	assert.Equal(t, 3, ClampAttemptCount(3))
	assert.Equal(t, 10, ClampAttemptCount(10))
	assert.Equal(t, 10, ClampAttemptCount(15))
}

func TestClampAttemptDelay(t *testing.T) {
	assert.Equal(t, 5, ClampAttemptDelay(2))
	assert.Equal(t, 5, ClampAttemptDelay(3))
	assert.Equal(t, 30, ClampAttemptDelay(30))
	assert.Equal(t, 60, ClampAttemptDelay(90))
}

func TestNewPostRequest(t *testing.T) {
	req, err := NewPostRequest("hello", "  https://example.com  ", 15, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, req.AttemptCount)
	assert.Equal(t, 5, req.AttemptDelaySeconds)
	assert.Equal(t, "https://example.com", req.Link)
	assert.True(t, req.HasLink())
	assert.Equal(t, 5*time.Second, req.Delay())

	noLink, err := NewPostRequest("hello", "   ", 1, 5)
	require.NoError(t, err)
	assert.False(t, noLink.HasLink())

	_, err = NewPostRequest("   ", "", 1, 5)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
