package navigation

import (
	"testing"

	"github.com/lumenforge/website/internal/pages"
)

type countingScroller struct{ calls int }

func (s *countingScroller) ScrollToTop() { s.calls++ }

func TestNewDefaultsToHome(t *testing.T) {
	for _, fragment := range []string{"", "#", "#nowhere"} {
		c := New(NewMemoryLocation(fragment), nil)
		if c.Current() != pages.Home {
			t.Errorf("fragment %q: Current() = %v, want home", fragment, c.Current())
		}
	}
}

func TestNewReadsFragment(t *testing.T) {
	c := New(NewMemoryLocation("#careers"), nil)
	if c.Current() != pages.Careers {
		t.Errorf("Current() = %v, want careers", c.Current())
	}
}

func TestNavigateToWritesFragmentAndScrolls(t *testing.T) {
	loc := NewMemoryLocation("")
	scroll := &countingScroller{}
	c := New(loc, scroll)

	c.NavigateTo(pages.Services)

	if c.Current() != pages.Services {
		t.Errorf("Current() = %v, want services", c.Current())
	}
	if loc.Fragment() != "#services" {
		t.Errorf("Fragment() = %q, want %q", loc.Fragment(), "#services")
	}
	if scroll.calls != 1 {
		t.Errorf("ScrollToTop calls = %d, want 1", scroll.calls)
	}
}

func TestExternalFragmentChangeIsNotWrittenBack(t *testing.T) {
	loc := NewMemoryLocation("#home")
	c := New(loc, nil)

	// Simulate back/forward: the browser changes the fragment, then fires the event.
	loc.mu.Lock()
	loc.fragment = "#about"
	loc.mu.Unlock()

	if changed := c.HandleFragmentChange("#about"); !changed {
		t.Error("expected HandleFragmentChange to report a change")
	}
	if c.Current() != pages.About {
		t.Errorf("Current() = %v, want about", c.Current())
	}
	if loc.Fragment() != "#about" {
		t.Errorf("Fragment() = %q, want %q", loc.Fragment(), "#about")
	}
	if len(loc.Writes()) != 0 {
		t.Errorf("expected no fragment writes, got %v", loc.Writes())
	}
}

func TestFragmentChangeToCurrentPageIsIgnored(t *testing.T) {
	c := New(NewMemoryLocation("#vision"), nil)
	notified := 0
	c.Subscribe(func(pages.Page) { notified++ })

	if c.HandleFragmentChange("#vision") {
		t.Error("expected no change")
	}
	if notified != 0 {
		t.Errorf("subscribers notified %d times, want 0", notified)
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	c := New(NewMemoryLocation(""), nil)

	var seen []pages.Page
	unsubscribe := c.Subscribe(func(p pages.Page) { seen = append(seen, p) })

	c.NavigateTo(pages.Contact)
	c.HandleFragmentChange("#login")
	unsubscribe()
	c.NavigateTo(pages.Home)

	if len(seen) != 2 || seen[0] != pages.Contact || seen[1] != pages.Login {
		t.Errorf("seen = %v, want [contact login]", seen)
	}
}

func TestNavigateToInvalidPageGoesHome(t *testing.T) {
	loc := NewMemoryLocation("#about")
	c := New(loc, nil)

	c.NavigateTo(pages.Page(99))

	if c.Current() != pages.Home || loc.Fragment() != "#home" {
		t.Errorf("got (%v, %q), want (home, #home)", c.Current(), loc.Fragment())
	}
}
