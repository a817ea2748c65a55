package fakebrowser

import (
	"fmt"
	"html"
)

// LoginPage is what the site serves to a logged-out visitor
const LoginPage = `<html><body>
<form id="login_form" action="/login/"><input name="email"><input name="pass" type="password"></form>
</body></html>`

// HomePage renders a logged-in home feed. An empty profileName omits the profile landmark.
func HomePage(profileName string) string {
	profile := ""
	if profileName != "" {
		profile = fmt.Sprintf(`<a aria-label="Your profile" href="/me"><span>%s</span></a>`, html.EscapeString(profileName))
	}
	return fmt.Sprintf(`<html><body>
<div role="banner">
  <a aria-label="Messenger" href="/messages"></a>
  <div aria-label="Notifications" role="button"></div>
  %s
</div>
<div role="main">
  <a href="/stories/create/">Create story</a>
  <div role="button" aria-label="Create a post"><span>What's on your mind?</span></div>
</div>
</body></html>`, profile)
}

const composerDialog = `<div role="dialog" aria-label="Create post">
  <div contenteditable="true" role="textbox"></div>
  <div role="button" aria-label="Add link"></div>
  <div role="button" aria-label="Post"></div>
</div>`

const storyDialog = `<div role="dialog" aria-label="Create story">
  <div role="button" aria-label="Create a text story"></div>
</div>`

const storyEditor = `<div contenteditable="true" role="textbox"></div>
<div role="button" aria-label="Share to story"></div>`
