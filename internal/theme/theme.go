// Package theme resolves the light or dark colour scheme on both sides of the
// page. The server picks from the cookie or the client hint; the client
// controller owns the toggle once mounted.
package theme

import (
	"net/http"
	"strings"
	"time"
)

// Preference is what the visitor asked for
type Preference string

const (
	System Preference = "system"
	Light  Preference = "light"
	Dark   Preference = "dark"
)

// ParsePreference accepts the cookie values
func ParsePreference(s string) (Preference, bool) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case System, Light, Dark:
		return p, true
	}
	return System, false
}

// Theme is the scheme actually applied
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Resolve applies pref against the system scheme. systemDark is nil when the
// system scheme is not known yet, in which case a system preference stays
// unresolved and the light fallback is returned.
func Resolve(pref Preference, systemDark *bool) (Theme, bool) {
	switch pref {
	case Light:
		return ThemeLight, true
	case Dark:
		return ThemeDark, true
	}
	if systemDark == nil {
		return ThemeLight, false
	}
	if *systemDark {
		return ThemeDark, true
	}
	return ThemeLight, true
}

// Toggle is the explicit opposite of the resolved theme
func Toggle(resolved Theme) Preference {
	if resolved == ThemeDark {
		return Light
	}
	return Dark
}

// Icon is the glyph on the toggle button
type Icon string

const (
	IconNone Icon = ""
	IconSun  Icon = "sun"
	IconMoon Icon = "moon"
)

// IconFor shows the sun on dark pages and the moon on light ones. An unresolved
// theme gets no icon at all.
func IconFor(t Theme, resolved bool) Icon {
	switch {
	case !resolved:
		return IconNone
	case t == ThemeDark:
		return IconSun
	default:
		return IconMoon
	}
}

// Label is the accessible name of the toggle button
func Label(t Theme, resolved bool) string {
	switch {
	case !resolved:
		return "Toggle theme"
	case t == ThemeDark:
		return "Switch to light mode"
	default:
		return "Switch to dark mode"
	}
}

const (
	CookieName = "theme"
	CookieAge  = 365 * 24 * time.Hour

	// HintHeader is the client hint carrying the system scheme. Browsers only
	// send it after the server lists it in Accept-CH.
	HintHeader = "Sec-CH-Prefers-Color-Scheme"
)

// Cookie persists pref for a year
func Cookie(pref Preference) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    string(pref),
		Path:     "/",
		MaxAge:   int(CookieAge / time.Second),
		HttpOnly: false, // the client controller rewrites it on toggle
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieString is the document.cookie assignment for pref
func CookieString(pref Preference) string {
	return Cookie(pref).String()
}

// Request is the resolution for one page request
type Request struct {
	Preference Preference
	Theme      Theme
	Resolved   bool
}

// Icon for the server rendered toggle
func (r Request) Icon() Icon { return IconFor(r.Theme, r.Resolved) }

// Label for the server rendered toggle
func (r Request) Label() string { return Label(r.Theme, r.Resolved) }

// FromRequest resolves the theme of a request from the theme cookie and the
// colour scheme client hint
func FromRequest(r *http.Request) Request {
	pref := System
	if c, err := r.Cookie(CookieName); err == nil {
		if p, ok := ParsePreference(c.Value); ok {
			pref = p
		}
	}

	var systemDark *bool
	switch strings.Trim(strings.ToLower(r.Header.Get(HintHeader)), `" `) {
	case "dark":
		v := true
		systemDark = &v
	case "light":
		v := false
		systemDark = &v
	}

	t, ok := Resolve(pref, systemDark)
	return Request{Preference: pref, Theme: t, Resolved: ok}
}
