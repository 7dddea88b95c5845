package web

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/lumenforge/website/internal/pages"
)

type view func(d pageData) g.Node

// viewFor maps every page to its view. Invalid pages render home.
func viewFor(p pages.Page) view {
	switch p {
	case pages.Home:
		return homeView
	case pages.Services:
		return servicesView
	case pages.Vision:
		return visionView
	case pages.About:
		return aboutView
	case pages.Careers:
		return careersView
	case pages.Contact:
		return contactView
	case pages.Login:
		return loginView
	case pages.Signup:
		return signupView
	}
	return homeView
}

type service struct {
	title   string
	summary string
	points  []string
}

var services = []service{
	{
		title:   "Custom Software Development",
		summary: "Web platforms, internal tools and APIs built around how your business actually works.",
		points:  []string{"Product discovery and prototyping", "Web and mobile applications", "API design and integration"},
	},
	{
		title:   "Cloud Solutions",
		summary: "Migrate, modernise and right-size your infrastructure on AWS, Azure or Google Cloud.",
		points:  []string{"Cloud migration planning", "Infrastructure as code", "Cost and performance reviews"},
	},
	{
		title:   "Data Engineering & Analytics",
		summary: "Pipelines and warehouses that turn scattered data into numbers you can trust.",
		points:  []string{"ETL and streaming pipelines", "Data warehouse design", "Dashboards and reporting"},
	},
	{
		title:   "AI & Machine Learning",
		summary: "Practical AI features, from document processing to assistants grounded in your own data.",
		points:  []string{"LLM integration", "Model evaluation", "Automation of manual workflows"},
	},
	{
		title:   "DevOps & Automation",
		summary: "Delivery pipelines and observability so releases are routine rather than risky.",
		points:  []string{"CI/CD pipelines", "Monitoring and alerting", "Incident response runbooks"},
	},
	{
		title:   "IT Consulting",
		summary: "Independent advice on architecture, vendors and team structure.",
		points:  []string{"Architecture reviews", "Technical due diligence", "Fractional CTO support"},
	},
}

func homeView(d pageData) g.Node {
	return g.Group([]g.Node{
		Section(
			Class("hero"),
			H1(g.Text("Software that keeps your business moving")),
			P(Class("lead"), g.Textf("%s designs, builds and runs reliable software for growing companies.", d.siteName)),
			Div(
				Class("actions"),
				A(Class("btn"), Href(pages.Contact.Path()), g.Text("Start a project")),
				A(Class("btn secondary"), Href(pages.Services.Path()), g.Text("Explore services")),
			),
		),
		Section(
			H2(g.Text("What we do")),
			serviceGrid(services[:3], false),
			P(A(Href(pages.Services.Path()), g.Text("See all services"))),
		),
		Section(
			Class("cta"),
			H2(g.Text("Ready to talk?")),
			P(g.Text("Tell us what you are building and we will get back to you within one business day.")),
			A(Class("btn"), Href(pages.Contact.Path()), g.Text("Contact us")),
		),
	})
}

func servicesView(d pageData) g.Node {
	return Section(
		H1(g.Text("Services")),
		P(Class("lead"), g.Text("End-to-end engineering, from the first prototype to the on-call rota.")),
		serviceGrid(services, true),
	)
}

func serviceGrid(list []service, detailed bool) g.Node {
	return Div(
		Class("grid"),
		g.Group(g.Map(list, func(s service) g.Node {
			return Article(
				Class("card"),
				H3(g.Text(s.title)),
				P(g.Text(s.summary)),
				g.If(detailed, Ul(g.Group(g.Map(s.points, func(pt string) g.Node {
					return Li(g.Text(pt))
				})))),
			)
		})),
	)
}

func visionView(d pageData) g.Node {
	return Section(Class("prose"), g.Raw(d.content.HTML("vision")))
}

func aboutView(d pageData) g.Node {
	return Section(Class("prose"), g.Raw(d.content.HTML("about")))
}

func careersView(d pageData) g.Node {
	return g.Group([]g.Node{
		Section(Class("prose"), g.Raw(d.content.HTML("careers"))),
		Section(
			ID("apply"),
			H2(g.Text("Apply now")),
			careersForm(d),
		),
	})
}

func contactView(d pageData) g.Node {
	return Section(
		Class("split"),
		Div(
			H1(g.Text("Contact us")),
			P(Class("lead"), g.Text("Have a project in mind or a question about our services? Send us a message.")),
			P(g.Text("We reply within one business day.")),
		),
		contactForm(d),
	)
}

func loginView(d pageData) g.Node {
	if d.user != nil {
		return Section(
			Class("narrow"),
			H1(g.Text("You are logged in")),
			P(g.Textf("Signed in as %s.", d.user.Email)),
			A(Class("btn"), Href(pages.Home.Path()), g.Text("Go to the home page")),
		)
	}
	return Section(
		Class("narrow"),
		H1(g.Text("Log in")),
		loginForm(d),
		P(g.Text("No account yet? "), A(Href(pages.Signup.Path()), g.Text("Sign up"))),
	)
}

func signupView(d pageData) g.Node {
	return Section(
		Class("narrow"),
		H1(g.Text("Create an account")),
		signupForm(d),
		P(g.Text("Already have an account? "), A(Href(pages.Login.Path()), g.Text("Log in"))),
	)
}
