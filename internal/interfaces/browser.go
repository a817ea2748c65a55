package interfaces

import (
	"context"

	"github.com/ternarybob/autoshare/internal/models"
)

// Landmark names a fixed DOM marker on the target site
type Landmark string

const (
	// Authenticated-only landmarks
	LandmarkCompose       Landmark = "compose"
	LandmarkMessaging     Landmark = "messaging"
	LandmarkNotifications Landmark = "notifications"

	// LandmarkProfile carries the display name of the logged-in account
	LandmarkProfile Landmark = "profile"

	// Composer dialog and its controls
	LandmarkComposer Landmark = "composer"
	LandmarkAddLink  Landmark = "addLink"
	LandmarkPublish  Landmark = "publish"

	// Story composer
	LandmarkStoryCreate Landmark = "storyCreate"
	LandmarkStoryText   Landmark = "storyText"
	LandmarkStoryShare  Landmark = "storyShare"
)

// AuthenticatedLandmarks are only rendered for a logged-in account
var AuthenticatedLandmarks = []Landmark{
	LandmarkCompose,
	LandmarkMessaging,
	LandmarkNotifications,
}

// BrowserSession is an isolated automated browser owned by a single request.
// Implementations must make Close idempotent; every other method fails with
// models.ErrSessionClosed once the underlying browser is gone.
type BrowserSession interface {
	// InjectCookies installs the credential cookies before the first navigation
	InjectCookies(ctx context.Context, cookies []models.CookieEntry) error

	// Navigate loads url and waits for network activity to settle, bounded by the
	// session's navigation timeout
	Navigate(ctx context.Context, url string) error

	// HasLandmark reports whether the landmark is currently present in the DOM
	HasLandmark(ctx context.Context, landmark Landmark) (bool, error)

	// ReadText returns the landmark's visible text; ok is false when it is absent
	ReadText(ctx context.Context, landmark Landmark) (text string, ok bool, err error)

	// Click triggers the landmark
	Click(ctx context.Context, landmark Landmark) error

	// Type sends literal keystrokes to the focused element
	Type(ctx context.Context, text string) error

	// Close releases the browser
	Close() error
}

// BrowserLauncher acquires fresh browser sessions
type BrowserLauncher interface {
	Acquire(ctx context.Context) (BrowserSession, error)
}
