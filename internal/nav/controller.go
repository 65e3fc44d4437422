// Package nav is the page state machine. The dashboard is only
// reachable while a session exists; the controller enforces that both
// on explicit navigation and reactively on session changes.
package nav

import (
	"sync"

	"github.com/mayan-kumar1/pdfchat/internal/session"
)

type Page int

const (
	PageLanding Page = iota
	PageLogin
	PageSignup
	PageDashboard
)

func (p Page) String() string {
	switch p {
	case PageLanding:
		return "landing"
	case PageLogin:
		return "login"
	case PageSignup:
		return "signup"
	case PageDashboard:
		return "dashboard"
	}
	return "unknown"
}

type Controller struct {
	mu       sync.Mutex
	page     Page
	sessions *session.Manager
}

// NewController starts on the landing page and registers the forcing
// rules as a session observer: a new session forces the dashboard, a
// vanished session forces the dashboard back to landing.
func NewController(sessions *session.Manager) *Controller {
	c := &Controller{page: PageLanding, sessions: sessions}
	sessions.Subscribe(c.onSessionChange)
	return c
}

// Navigate moves to the requested page. Landing, login and signup are
// free transitions; the dashboard is granted only with a session and
// silently redirects to login otherwise.
func (c *Controller) Navigate(target Page) {
	if target == PageDashboard && c.sessions.Current() == nil {
		target = PageLogin
	}
	c.mu.Lock()
	c.page = target
	c.mu.Unlock()
}

func (c *Controller) onSessionChange(s *session.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s != nil {
		c.page = PageDashboard
		return
	}
	if c.page == PageDashboard {
		c.page = PageLanding
	}
}

func (c *Controller) Current() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}
