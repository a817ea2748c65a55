package browser

import (
	"github.com/ternarybob/autoshare/internal/interfaces"
)

// Selectors maps each landmark to a CSS selector group.
// Markup changes on the target site are absorbed here and nowhere else.
var Selectors = map[interfaces.Landmark]string{
	interfaces.LandmarkCompose:       `[aria-label="Create a post"], div[role="button"][aria-label*="on your mind"]`,
	interfaces.LandmarkMessaging:     `[aria-label="Messenger"], [aria-label="Chats"]`,
	interfaces.LandmarkNotifications: `[aria-label="Notifications"]`,
	interfaces.LandmarkProfile:       `[aria-label="Your profile"]`,
	interfaces.LandmarkComposer:      `div[role="dialog"] div[contenteditable="true"][role="textbox"]`,
	interfaces.LandmarkAddLink:       `div[role="dialog"] [aria-label="Add link"]`,
	interfaces.LandmarkPublish:       `div[role="dialog"] [aria-label="Post"]`,
	interfaces.LandmarkStoryCreate:   `a[href*="/stories/create"], [aria-label="Create story"]`,
	interfaces.LandmarkStoryText:     `[aria-label="Create a text story"]`,
	interfaces.LandmarkStoryShare:    `[aria-label="Share to story"]`,
}

// Selector returns the CSS selector for a landmark, or "" if it is unknown
func Selector(l interfaces.Landmark) string {
	return Selectors[l]
}
