// Package navigation keeps the current page in sync with the location fragment.
package navigation

import (
	"sync"

	"github.com/lumenforge/website/internal/pages"
)

// Location is the part of the browser location the controller reads and writes.
type Location interface {
	Fragment() string
	SetFragment(fragment string)
}

// Scroller resets the viewport when a new page is shown.
type Scroller interface {
	ScrollToTop()
}

// Controller owns the current page. The location fragment is authoritative
// at construction and when it changes externally (back/forward); after that
// the controller's own state is authoritative and written to the fragment.
type Controller struct {
	mu      sync.Mutex
	current pages.Page
	loc     Location
	scroll  Scroller

	nextID int
	subs   map[int]func(pages.Page)
}

// New creates a controller initialised from loc's fragment. An absent,
// empty or unknown fragment selects the home page. scroll may be nil.
func New(loc Location, scroll Scroller) *Controller {
	return &Controller{
		current: pages.FromFragment(loc.Fragment()),
		loc:     loc,
		scroll:  scroll,
		subs:    make(map[int]func(pages.Page)),
	}
}

// Current returns the active page.
func (c *Controller) Current() pages.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NavigateTo makes p the active page, writes its fragment and scrolls to the top.
func (c *Controller) NavigateTo(p pages.Page) {
	if !p.Valid() {
		p = pages.Home
	}

	c.mu.Lock()
	c.current = p
	subs := c.snapshot()
	c.mu.Unlock()

	c.loc.SetFragment(p.Fragment())
	if c.scroll != nil {
		c.scroll.ScrollToTop()
	}
	notify(subs, p)
}

// HandleFragmentChange adopts a fragment changed outside the controller.
// The fragment is never written back. It reports whether the page changed.
func (c *Controller) HandleFragmentChange(fragment string) bool {
	p := pages.FromFragment(fragment)

	c.mu.Lock()
	if p == c.current {
		c.mu.Unlock()
		return false
	}
	c.current = p
	subs := c.snapshot()
	c.mu.Unlock()

	notify(subs, p)
	return true
}

// Subscribe registers fn to be called after every page change and returns
// a function that removes it.
func (c *Controller) Subscribe(fn func(pages.Page)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Controller) snapshot() []func(pages.Page) {
	subs := make([]func(pages.Page), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(pages.Page), p pages.Page) {
	for _, fn := range subs {
		fn(p)
	}
}
