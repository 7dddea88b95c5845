package web

import (
	"strconv"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/lumenforge/website/internal/chat"
	"github.com/lumenforge/website/internal/content"
	"github.com/lumenforge/website/internal/forms"
	"github.com/lumenforge/website/internal/pages"
	"github.com/lumenforge/website/internal/seo"
	"github.com/lumenforge/website/internal/session"
)

// pageData is everything a view needs for one request.
type pageData struct {
	page pages.Page
	user *session.User

	// form is the page's own form after a failed post; nil renders it empty.
	form    *forms.Form
	formErr string
	sent    bool

	newsletter *forms.Form
	subscribed bool

	siteName string
	content  *content.Library
	chat     bool
	uploads  bool
}

// navPages are the pages listed in the main navigation.
var navPages = []pages.Page{pages.Home, pages.Services, pages.Vision, pages.About, pages.Careers, pages.Contact}

func document(head *seo.Head, d pageData) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				g.Group(head.Nodes()),
				Meta(g.Attr("property", "og:type"), Content("website")),
				Link(Rel("stylesheet"), Href("/static/site.css")),
			),
			Body(
				g.Attr("data-page", d.page.String()),
				navbar(d),
				Main(ID("main"), Class("container"), viewFor(d.page)(d)),
				footer(d),
				g.If(d.chat, chatWidget()),
				Script(Src("/static/site.js"), Defer()),
			),
		),
	})
}

func navbar(d pageData) g.Node {
	return Header(
		Class("topbar"),
		Nav(
			Class("container nav"),
			A(Class("logo"), Href(pages.Home.Path()), g.Text(d.siteName)),
			Ul(
				Class("nav-links"),
				g.Group(g.Map(navPages, func(p pages.Page) g.Node {
					return Li(navLink(p, d.page))
				})),
			),
			Div(Class("nav-account"), account(d.user)),
		),
	)
}

func navLink(p, current pages.Page) g.Node {
	return A(
		Href(p.Path()),
		g.Attr("data-page", p.String()),
		g.If(p == current, g.Attr("aria-current", "page")),
		g.Text(p.Title()),
	)
}

func account(u *session.User) g.Node {
	if u == nil {
		return g.Group([]g.Node{
			A(Href(pages.Login.Path()), g.Text(pages.Login.Title())),
			A(Class("btn"), Href(pages.Signup.Path()), g.Text(pages.Signup.Title())),
		})
	}
	return g.Group([]g.Node{
		Span(Class("greeting"), g.Text("Hi, "+u.DisplayName())),
		Form(
			Method("post"),
			Action("/logout"),
			Class("inline"),
			Button(Type("submit"), Class("link"), g.Text("Log out")),
		),
	})
}

func footer(d pageData) g.Node {
	return Footer(
		Class("footer"),
		Div(
			Class("container footer-grid"),
			Div(
				Strong(g.Text(d.siteName)),
				P(g.Text("Engineering reliable software for growing companies.")),
			),
			Ul(
				Class("footer-links"),
				g.Group(g.Map(navPages[1:], func(p pages.Page) g.Node {
					return Li(A(Href(p.Path()), g.Text(p.Title())))
				})),
			),
			newsletterForm(d),
		),
		P(Class("container copyright"), g.Textf("© %d %s. All rights reserved.", time.Now().Year(), d.siteName)),
	)
}

func newsletterForm(d pageData) g.Node {
	st := stateOf(d.newsletter)
	return Div(
		ID("newsletter"),
		Class("newsletter"),
		H3(g.Text("Stay in the loop")),
		formPanel(d.subscribed,
			P(g.Text("Thanks for subscribing!")),
			Form(
				Method("post"),
				Action("/newsletter"),
				Input(Type("hidden"), Name("page"), Value(d.page.String())),
				formAlert(st),
				Label(g.Attr("for", "newsletter-email"), Class("sr-only"), g.Text("Email")),
				Input(
					ID("newsletter-email"),
					Type("email"),
					Name(forms.FieldEmail),
					Placeholder("you@company.com"),
					Value(st.draft.Raw(forms.FieldEmail)),
					Required(),
				),
				fieldError(st.errs.Field(forms.FieldEmail)),
				submitButton("Subscribe", "Subscribing..."),
			),
		),
	)
}

func chatWidget() g.Node {
	return Div(
		ID("chat"),
		Class("chat"),
		g.Attr("data-endpoint", "/api/chat"),
		g.Attr("data-socket", "/ws/chat"),
		Button(Type("button"), Class("chat-toggle btn"), g.Attr("aria-expanded", "false"), g.Text("Chat with us")),
		Div(
			Class("chat-panel"),
			g.Attr("hidden", ""),
			Div(Class("chat-log"), g.Attr("aria-live", "polite")),
			Form(
				Class("chat-form"),
				Input(
					Type("text"),
					Name("message"),
					Placeholder("Ask about our services..."),
					g.Attr("maxlength", strconv.Itoa(chat.MaxMessageLength)),
					g.Attr("autocomplete", "off"),
				),
				Button(Type("submit"), Class("btn"), g.Text("Send")),
			),
		),
	)
}
