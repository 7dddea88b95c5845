package mailrelay

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

const notProvided = "Not provided"

// RenderContact builds the operations inbox email for a contact submission.
// All user input is escaped by the node renderer.
func RenderContact(c ContactEmail, to string) (Message, error) {
	body := emailLayout("New Contact Form Submission",
		row("Name", g.Text(c.Name)),
		row("Email", mailto(c.Email)),
		row("Message", html.Div(html.Style("white-space:pre-wrap"), g.Text(c.Message))),
	)

	var text strings.Builder
	fmt.Fprintf(&text, "New Contact Form Submission\n\n")
	fmt.Fprintf(&text, "Name: %s\nEmail: %s\n\nMessage:\n%s\n", c.Name, c.Email, c.Message)

	return render(body, Message{
		To:      to,
		ReplyTo: c.Email,
		Subject: "New contact form submission from " + oneLine(c.Name),
		Text:    text.String(),
	})
}

// RenderCareers builds the careers inbox email for a job application.
// Optional fields render as "Not provided".
func RenderCareers(c CareersEmail, to string) (Message, error) {
	fullName := strings.TrimSpace(c.FirstName + " " + c.LastName)

	body := emailLayout("New Job Application",
		row("Name", g.Text(fullName)),
		row("Email", mailto(c.Email)),
		row("Phone", g.Text(orNotProvided(c.Phone))),
		row("Position", g.Text(c.Position)),
		row("Start Date", g.Text(orNotProvided(c.StartDate))),
		row("Resume", link(c.ResumeURL, "View resume")),
		row("LinkedIn", link(c.LinkedInURL, c.LinkedInURL)),
	)

	var text strings.Builder
	fmt.Fprintf(&text, "New Job Application\n\n")
	fmt.Fprintf(&text, "Name: %s\n", fullName)
	fmt.Fprintf(&text, "Email: %s\n", c.Email)
	fmt.Fprintf(&text, "Phone: %s\n", orNotProvided(c.Phone))
	fmt.Fprintf(&text, "Position: %s\n", c.Position)
	fmt.Fprintf(&text, "Start Date: %s\n", orNotProvided(c.StartDate))
	fmt.Fprintf(&text, "Resume: %s\n", orNotProvided(c.ResumeURL))
	fmt.Fprintf(&text, "LinkedIn: %s\n", orNotProvided(c.LinkedInURL))

	return render(body, Message{
		To:      to,
		ReplyTo: c.Email,
		Subject: fmt.Sprintf("New job application: %s - %s", oneLine(c.Position), oneLine(fullName)),
		Text:    text.String(),
	})
}

func render(body g.Node, m Message) (Message, error) {
	var buf bytes.Buffer
	if err := body.Render(&buf); err != nil {
		return Message{}, fmt.Errorf("rendering email body: %w", err)
	}
	m.HTML = buf.String()
	return m, nil
}

func emailLayout(heading string, rows ...g.Node) g.Node {
	return html.Doctype(
		html.HTML(
			html.Head(html.Meta(html.Charset("utf-8"))),
			html.Body(html.Style("font-family:Arial,sans-serif;color:#1f2937"),
				html.H2(g.Text(heading)),
				html.Table(html.Style("border-collapse:collapse"), g.Group(rows)),
			),
		),
	)
}

func row(label string, value g.Node) g.Node {
	return html.Tr(
		html.Td(html.Style("padding:6px 12px 6px 0;vertical-align:top"), html.Strong(g.Text(label+":"))),
		html.Td(html.Style("padding:6px 0"), value),
	)
}

func mailto(addr string) g.Node {
	return html.A(html.Href("mailto:"+addr), g.Text(addr))
}

// link renders an anchor only for http and https URLs so that javascript:
// and other schemes stay inert text.
func link(raw, label string) g.Node {
	if strings.TrimSpace(raw) == "" {
		return g.Text(notProvided)
	}
	if !isWebURL(raw) {
		return g.Text(raw)
	}
	return html.A(html.Href(raw), g.Text(label))
}

func isWebURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

// oneLine strips line breaks so user input cannot add header lines.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
