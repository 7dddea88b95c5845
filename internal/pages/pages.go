// Package pages defines the closed set of top-level views of the site.
package pages

import "strings"

// Page identifies a top-level view. The zero value is Home.
type Page int

const (
	Home Page = iota
	Services
	Vision
	About
	Careers
	Contact
	Login
	Signup

	pageCount
)

var tokens = [pageCount]string{
	Home:     "home",
	Services: "services",
	Vision:   "vision",
	About:    "about",
	Careers:  "careers",
	Contact:  "contact",
	Login:    "login",
	Signup:   "signup",
}

var titles = [pageCount]string{
	Home:     "Home",
	Services: "Services",
	Vision:   "Vision",
	About:    "About",
	Careers:  "Careers",
	Contact:  "Contact",
	Login:    "Log in",
	Signup:   "Sign up",
}

// All returns every page in navigation order.
func All() []Page {
	all := make([]Page, 0, pageCount)
	for p := Home; p < pageCount; p++ {
		all = append(all, p)
	}
	return all
}

// Parse resolves a page token. A leading '#' or '/' and surrounding
// whitespace are ignored and matching is case-insensitive. Unknown or empty
// tokens resolve to Home with ok=false.
func Parse(token string) (p Page, ok bool) {
	token = strings.TrimSpace(token)
	token = strings.TrimPrefix(token, "#")
	token = strings.TrimPrefix(token, "/")
	token = strings.ToLower(token)
	for i, t := range tokens {
		if t == token {
			return Page(i), true
		}
	}
	return Home, false
}

// FromFragment resolves a URL fragment such as "#about", falling back to Home.
func FromFragment(fragment string) Page {
	p, _ := Parse(fragment)
	return p
}

// Valid reports whether p is one of the declared pages.
func (p Page) Valid() bool { return p >= Home && p < pageCount }

// String returns the page token, e.g. "services".
func (p Page) String() string {
	if !p.Valid() {
		return tokens[Home]
	}
	return tokens[p]
}

// Fragment returns the URL fragment for the page, e.g. "#services".
func (p Page) Fragment() string { return "#" + p.String() }

// Path returns the server path rendering the page. Home lives at "/".
func (p Page) Path() string {
	if p == Home || !p.Valid() {
		return "/"
	}
	return "/" + p.String()
}

// Title returns the navigation label for the page.
func (p Page) Title() string {
	if !p.Valid() {
		return titles[Home]
	}
	return titles[p]
}
