// Package mailrelay turns contact and careers form payloads into
// transactional emails. It provides the HTTP endpoints, the Mailgun sender
// behind them, and the client the forms use to call them.
package mailrelay

import "strings"

// ContactEmail is the payload of POST /api/send-contact-email.
type ContactEmail struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Missing returns the JSON names of required fields that are blank.
func (c ContactEmail) Missing() []string {
	return missing(
		field{"name", c.Name},
		field{"email", c.Email},
		field{"message", c.Message},
	)
}

// CareersEmail is the payload of POST /api/send-careers-email.
type CareersEmail struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate,omitempty"`
	ResumeURL   string `json:"resumeUrl,omitempty"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
}

// Missing returns the JSON names of required fields that are blank.
func (c CareersEmail) Missing() []string {
	return missing(
		field{"firstName", c.FirstName},
		field{"lastName", c.LastName},
		field{"email", c.Email},
		field{"position", c.Position},
	)
}

// Message is a rendered email ready for a Sender.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

type field struct {
	name  string
	value string
}

func missing(fields ...field) []string {
	var out []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}
