// Package guard decides whether a protected page may render for the current
// session.
package guard

import (
	"net/url"

	"rwooga-storefront/internal/domain"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Outcome is what the caller should do with the requested page.
type Outcome string

const (
	Render   Outcome = "render"
	Loading  Outcome = "loading"
	Redirect Outcome = "redirect"
)

// Decision is the result of Decide. Target and From are set only for
// redirects; From carries the originally requested location back to the login
// page.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Target  string  `json:"target,omitempty"`
	From    string  `json:"from,omitempty"`
}

// Location renders a redirect as a URL, with from as a query parameter.
func (d Decision) Location() string {
	if d.Outcome != Redirect {
		return ""
	}
	if d.From == "" {
		return d.Target
	}
	return d.Target + "?" + url.Values{"from": {d.From}}.Encode()
}

// Decide gates requested for a session in status holding user. An empty
// required role only demands a signed-in user.
func Decide(status domain.SessionStatus, user *domain.User, required domain.Role, requested string) Decision {
	switch {
	case status == domain.SessionAuthenticating:
		return Decision{Outcome: Loading}
	case user == nil:
		return Decision{Outcome: Redirect, Target: LoginPath, From: requested}
	case !user.Role.Satisfies(required):
		return Decision{Outcome: Redirect, Target: HomePath}
	default:
		return Decision{Outcome: Render}
	}
}
