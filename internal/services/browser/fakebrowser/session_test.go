package fakebrowser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/autoshare/internal/interfaces"
	"github.com/ternarybob/autoshare/internal/models"
)

func TestSession_HomePageLandmarks(t *testing.T) {
	ctx := context.Background()
	s := NewLoggedInSession("Jane Doe")
	require.NoError(t, s.Navigate(ctx, "https://www.facebook.com/"))

	for _, l := range interfaces.AuthenticatedLandmarks {
		ok, err := s.HasLandmark(ctx, l)
		require.NoError(t, err)
		assert.True(t, ok, "landmark %s should be present", l)
	}

	name, ok, err := s.ReadText(ctx, interfaces.LandmarkProfile)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Jane Doe", name)

	open, err := s.HasLandmark(ctx, interfaces.LandmarkComposer)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestSession_LoginPageHasNoLandmarks(t *testing.T) {
	ctx := context.Background()
	s := NewLoggedOutSession()
	require.NoError(t, s.Navigate(ctx, "https://www.facebook.com/"))

	for _, l := range interfaces.AuthenticatedLandmarks {
		ok, err := s.HasLandmark(ctx, l)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	_, ok, err := s.ReadText(ctx, interfaces.LandmarkProfile)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_ComposerLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewLoggedInSession("")
	require.NoError(t, s.Navigate(ctx, "home"))

	assert.Error(t, s.Type(ctx, "too early"), "typing needs an editable element")
	assert.Error(t, s.Click(ctx, interfaces.LandmarkPublish), "publish is only inside the composer")

	require.NoError(t, s.Click(ctx, interfaces.LandmarkCompose))
	open, _ := s.HasLandmark(ctx, interfaces.LandmarkComposer)
	assert.True(t, open)

	require.NoError(t, s.Type(ctx, "hello"))
	require.NoError(t, s.Click(ctx, interfaces.LandmarkAddLink))
	require.NoError(t, s.Click(ctx, interfaces.LandmarkPublish))

	open, _ = s.HasLandmark(ctx, interfaces.LandmarkComposer)
	assert.False(t, open)
	assert.Equal(t, []string{"hello"}, s.Typed())
}

func TestSession_ClosedAndLost(t *testing.T) {
	ctx := context.Background()

	closed := NewLoggedInSession("")
	require.NoError(t, closed.Close())
	require.NoError(t, closed.Close())
	assert.Equal(t, 2, closed.CloseCount())
	assert.True(t, errors.Is(closed.Navigate(ctx, "home"), models.ErrSessionClosed))

	lost := NewLoggedInSession("")
	lost.LoseOnNavigation = 2
	require.NoError(t, lost.Navigate(ctx, "home"))
	assert.True(t, errors.Is(lost.Navigate(ctx, "home"), models.ErrSessionClosed))
	_, err := lost.HasLandmark(ctx, interfaces.LandmarkCompose)
	assert.True(t, errors.Is(err, models.ErrSessionClosed))
}
