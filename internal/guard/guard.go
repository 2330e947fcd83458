// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package guard decides whether the current viewer may see an admin view.
package guard

import "github.com/markgaal068/bigHITS/internal/model"

// Redirect targets.
const (
	SignInPath = "/auth/signin"
	HomePath   = "/"
)

// Kind enumerates the guard outcomes.
type Kind int

// Guard outcomes.
const (
	KindAllow Kind = iota
	KindRedirect
)

// Action is the result of evaluating a session.
// For KindAllow, Suspended reports that the session is still resolving and a
// loading view should be rendered instead of the protected content.
// For KindRedirect, Path holds the navigation target.
type Action struct {
	Kind      Kind
	Suspended bool
	Path      string
}

// Allow returns an action that renders the protected view.
func Allow() Action { return Action{Kind: KindAllow} }

// Suspend returns an allow action that renders a loading view.
func Suspend() Action { return Action{Kind: KindAllow, Suspended: true} }

// RedirectTo returns an action that navigates to path.
func RedirectTo(path string) Action { return Action{Kind: KindRedirect, Path: path} }

// IsAllow reports whether the action lets the viewer through.
func (a Action) IsAllow() bool { return a.Kind == KindAllow }

// IsRedirect reports whether the action navigates away.
func (a Action) IsRedirect() bool { return a.Kind == KindRedirect }

func (a Action) String() string {
	switch {
	case a.Kind == KindRedirect:
		return "redirect:" + a.Path
	case a.Suspended:
		return "allow:suspended"
	default:
		return "allow"
	}
}

// Evaluate applies the admin access rules to a session. Rules are checked in
// order: loading suspends, unauthenticated goes to sign-in, anything other
// than an authenticated admin goes home. It never fails; unknown statuses
// are treated as unauthenticated.
func Evaluate(s model.Session) Action {
	switch s.Status {
	case model.SessionLoading:
		return Suspend()
	case model.SessionAuthenticated:
		if s.IsAdmin() {
			return Allow()
		}
		return RedirectTo(HomePath)
	default:
		return RedirectTo(SignInPath)
	}
}

// Navigator performs navigation side effects.
type Navigator interface {
	Push(path string)
}

// Apply performs the side effect of an action. It returns true when the
// protected content may render (allowed and not suspended).
func Apply(a Action, nav Navigator) bool {
	if a.IsRedirect() {
		nav.Push(a.Path)
		return false
	}
	return !a.Suspended
}
