package seo

import "github.com/lumenforge/website/internal/pages"

// Meta is the static search metadata for one page. Canonical is a site path;
// when empty the page path is used.
type Meta struct {
	Title       string
	Description string
	Canonical   string
}

var table = map[pages.Page]Meta{
	pages.Home: {
		Title:       "LumenForge | Software Engineering & Cloud Consulting",
		Description: "LumenForge designs, builds and runs reliable software for growing companies: cloud platforms, data pipelines and product engineering.",
		Canonical:   "/",
	},
	pages.Services: {
		Title:       "Services | LumenForge",
		Description: "Custom software development, cloud migration, data engineering, AI integration and managed operations from LumenForge.",
		Canonical:   "/services",
	},
	pages.Vision: {
		Title:       "Our Vision | LumenForge",
		Description: "Technology that is simple to run, honest about trade-offs and built to last. Read where LumenForge is headed.",
		Canonical:   "/vision",
	},
	pages.About: {
		Title:       "About Us | LumenForge",
		Description: "Meet the engineers behind LumenForge and learn how we work with clients from discovery to delivery.",
		Canonical:   "/about",
	},
	pages.Careers: {
		Title:       "Careers | LumenForge",
		Description: "Join LumenForge. Browse open engineering, design and delivery roles and apply online.",
		Canonical:   "/careers",
	},
	pages.Contact: {
		Title:       "Contact | LumenForge",
		Description: "Tell us about your project. Send the LumenForge team a message and we will get back to you within one business day.",
		Canonical:   "/contact",
	},
	pages.Login: {
		Title:       "Log in | LumenForge",
		Description: "Log in to your LumenForge account.",
	},
	pages.Signup: {
		Title:       "Create an account | LumenForge",
		Description: "Create a LumenForge account to follow your applications and project enquiries.",
	},
}

// Lookup returns the metadata for p, or the home record when p has none.
func Lookup(p pages.Page) Meta {
	if m, ok := table[p]; ok {
		if m.Canonical == "" {
			m.Canonical = p.Path()
		}
		return m
	}
	return table[pages.Home]
}
