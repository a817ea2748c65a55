package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Required cookie names for an authenticated session
const (
	CookieAccountID     = "c_user"
	CookieSessionSecret = "xs"
)

// CookieEntry is a single browser cookie supplied by the caller.
// Name is the identity key; the remaining fields are passed through to the browser.
type CookieEntry struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain,omitempty"`
	Path     string `json:"path,omitempty"`
	Expires  int64  `json:"expires,omitempty"` // Unix seconds, 0 = session cookie
	Secure   bool   `json:"secure,omitempty"`
	HTTPOnly bool   `json:"httpOnly,omitempty"`
	SameSite string `json:"sameSite,omitempty"`
}

// UnmarshalJSON accepts the common "appstate" export shapes: the cookie name may be
// under "name" or "key", and the expiry may be a unix number, an RFC date string or
// an extension-style "expirationDate".
func (c *CookieEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name           string          `json:"name"`
		Key            string          `json:"key"`
		Value          string          `json:"value"`
		Domain         string          `json:"domain"`
		Path           string          `json:"path"`
		Expires        json.RawMessage `json:"expires"`
		ExpirationDate float64         `json:"expirationDate"`
		Secure         bool            `json:"secure"`
		HTTPOnly       bool            `json:"httpOnly"`
		SameSite       string          `json:"sameSite"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Name = raw.Name
	if c.Name == "" {
		c.Name = raw.Key
	}
	c.Value = raw.Value
	c.Domain = raw.Domain
	c.Path = raw.Path
	c.Secure = raw.Secure
	c.HTTPOnly = raw.HTTPOnly
	c.SameSite = normalizeSameSite(raw.SameSite)
	c.Expires = parseExpires(raw.Expires)
	if c.Expires == 0 && raw.ExpirationDate > 0 {
		c.Expires = int64(raw.ExpirationDate)
	}
	return nil
}

func parseExpires(raw json.RawMessage) int64 {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int64(n)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, time.RFC1123, time.RFC1123Z} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix()
		}
	}
	return 0
}

func normalizeSameSite(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "strict":
		return "Strict"
	case "lax":
		return "Lax"
	case "none", "no_restriction":
		return "None"
	default:
		return ""
	}
}

// CredentialSet is the ordered, read-only cookie collection carried by one request.
type CredentialSet struct {
	cookies []CookieEntry
}

// NewCredentialSet copies the supplied cookies and checks the required entries.
// Returns ErrInvalidCredentials when c_user or xs is missing or empty.
func NewCredentialSet(cookies []CookieEntry) (*CredentialSet, error) {
	owned := make([]CookieEntry, len(cookies))
	copy(owned, cookies)
	set := &CredentialSet{cookies: owned}

	for _, name := range []string{CookieAccountID, CookieSessionSecret} {
		if c, ok := set.Get(name); !ok || strings.TrimSpace(c.Value) == "" {
			return nil, fmt.Errorf("%w: missing required cookie %q", ErrInvalidCredentials, name)
		}
	}
	return set, nil
}

// Get returns the first cookie with the given name
func (s *CredentialSet) Get(name string) (CookieEntry, bool) {
	for _, c := range s.cookies {
		if c.Name == name {
			return c, true
		}
	}
	return CookieEntry{}, false
}

// AccountID returns the value of the c_user cookie
func (s *CredentialSet) AccountID() string {
	c, _ := s.Get(CookieAccountID)
	return c.Value
}

// Cookies returns a copy of the cookies in their original order
func (s *CredentialSet) Cookies() []CookieEntry {
	out := make([]CookieEntry, len(s.cookies))
	copy(out, s.cookies)
	return out
}

// Len returns the number of cookies in the set
func (s *CredentialSet) Len() int {
	return len(s.cookies)
}
