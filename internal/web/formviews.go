package web

import (
	"strconv"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/lumenforge/website/internal/forms"
	"github.com/lumenforge/website/internal/pages"
)

// formState is the render-time snapshot of a form.
type formState struct {
	draft forms.Draft
	errs  forms.ValidationErrors
	msg   string
}

func stateOf(f *forms.Form) formState {
	if f == nil {
		return formState{draft: forms.NewDraft()}
	}
	return formState{draft: f.Draft(), errs: f.FieldErrors(), msg: f.Error()}
}

type option struct {
	value string
	label string
}

// formPanel shows form, or when sent the confirmation with the empty form
// hidden behind it until site.js reverts the panel.
func formPanel(sent bool, confirm, form g.Node) g.Node {
	if !sent {
		return Div(Class("form-panel"), form)
	}
	return Div(
		Class("form-panel"),
		g.Attr("data-revert-after", strconv.FormatInt(forms.ConfirmationDuration.Milliseconds(), 10)),
		Div(Class("confirmation"), g.Attr("role", "status"), confirm),
		Div(Class("form-editor"), g.Attr("hidden", ""), form),
	)
}

// formAlert shows the submission error. Validation failures are shown next
// to their fields instead.
func formAlert(st formState) g.Node {
	if st.msg == "" || len(st.errs) > 0 {
		return nil
	}
	return Div(Class("alert"), g.Attr("role", "alert"), g.Text(st.msg))
}

func fieldError(msg string) g.Node {
	if msg == "" {
		return nil
	}
	return P(Class("field-error"), g.Text(msg))
}

func submitButton(label, busy string) g.Node {
	return Button(Type("submit"), Class("btn"), g.Attr("data-busy-label", busy), g.Text(label))
}

func inputField(st formState, name, label, typ string, required bool) g.Node {
	id := "f-" + name
	errMsg := st.errs.Field(name)
	return Div(
		Class("field"),
		Label(g.Attr("for", id), g.Text(label)),
		Input(
			ID(id),
			Type(typ),
			Name(name),
			g.If(typ != "password", Value(st.draft.Raw(name))),
			g.If(required, Required()),
			g.If(errMsg != "", g.Attr("aria-invalid", "true")),
		),
		fieldError(errMsg),
	)
}

func selectField(st formState, name, label, prompt string, required bool, opts []option) g.Node {
	id := "f-" + name
	current := st.draft.Get(name)
	return Div(
		Class("field"),
		Label(g.Attr("for", id), g.Text(label)),
		Select(
			ID(id),
			Name(name),
			g.If(required, Required()),
			Option(Value(""), g.Text(prompt)),
			g.Group(g.Map(opts, func(o option) g.Node {
				return Option(Value(o.value), g.If(o.value == current, Selected()), g.Text(o.label))
			})),
		),
		fieldError(st.errs.Field(name)),
	)
}

func contactForm(d pageData) g.Node {
	st := stateOf(d.form)
	return formPanel(d.sent,
		g.Group([]g.Node{
			H3(g.Text("Message sent!")),
			P(g.Text("Thank you for reaching out. We'll get back to you within one business day.")),
		}),
		Form(
			Method("post"),
			Action(pages.Contact.Path()),
			formAlert(st),
			inputField(st, forms.FieldName, "Name", "text", true),
			inputField(st, forms.FieldEmail, "Email", "email", true),
			Div(
				Class("field"),
				Label(g.Attr("for", "f-"+forms.FieldMessage), g.Text("Message")),
				Textarea(
					ID("f-"+forms.FieldMessage),
					Name(forms.FieldMessage),
					g.Attr("rows", "6"),
					Required(),
					g.Text(st.draft.Raw(forms.FieldMessage)),
				),
				fieldError(st.errs.Field(forms.FieldMessage)),
			),
			submitButton("Send message", "Sending..."),
		),
	)
}

func careersForm(d pageData) g.Node {
	st := stateOf(d.form)
	if d.formErr != "" {
		st.msg = d.formErr
	}

	positions := make([]option, len(forms.Positions))
	for i, p := range forms.Positions {
		positions[i] = option{value: p, label: p}
	}

	return formPanel(d.sent,
		g.Group([]g.Node{
			H3(g.Text("Application received!")),
			P(g.Text("Thanks for applying. Our team will review your application and be in touch.")),
		}),
		Form(
			Method("post"),
			Action(pages.Careers.Path()),
			g.Attr("enctype", "multipart/form-data"),
			formAlert(st),
			g.If(!d.uploads, P(Class("notice"), g.Text("Online applications are temporarily unavailable. Please email your resume to our careers team."))),
			Div(
				Class("field-row"),
				inputField(st, forms.FieldFirstName, "First name", "text", true),
				inputField(st, forms.FieldLastName, "Last name", "text", true),
			),
			inputField(st, forms.FieldEmail, "Email", "email", true),
			inputField(st, forms.FieldPhone, "Phone", "tel", false),
			selectField(st, forms.FieldPosition, "Position", "Select a position", true, positions),
			startDateFields(st),
			inputField(st, forms.FieldLinkedIn, "LinkedIn profile", "url", false),
			Div(
				Class("field"),
				Label(g.Attr("for", "f-"+forms.FieldResume), g.Text("Resume (PDF, DOC or DOCX, max 10 MB)")),
				Input(
					ID("f-"+forms.FieldResume),
					Type("file"),
					Name(forms.FieldResume),
					g.Attr("accept", ".pdf,.doc,.docx"),
					Required(),
				),
				fieldError(st.errs.Field(forms.FieldResume)),
			),
			submitButton("Submit application", "Submitting..."),
		),
	)
}

// startDateFields renders the day, month and year selects. A date
// validation error is reported on the day field.
func startDateFields(st formState) g.Node {
	days := make([]option, 0, 31)
	for i := 1; i <= 31; i++ {
		days = append(days, option{value: strconv.Itoa(i), label: strconv.Itoa(i)})
	}
	months := make([]option, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, option{value: strconv.Itoa(int(m)), label: m.String()})
	}
	year := time.Now().Year()
	years := make([]option, 0, 3)
	for y := year; y < year+3; y++ {
		years = append(years, option{value: strconv.Itoa(y), label: strconv.Itoa(y)})
	}

	noErr := formState{draft: st.draft}
	return Div(
		Class("field"),
		Span(Class("label"), g.Text("Earliest start date (optional)")),
		Div(
			Class("field-row"),
			selectField(noErr, forms.FieldStartDay, "Day", "Day", false, days),
			selectField(noErr, forms.FieldStartMonth, "Month", "Month", false, months),
			selectField(noErr, forms.FieldStartYear, "Year", "Year", false, years),
		),
		fieldError(st.errs.Field(forms.FieldStartDay)),
	)
}

func signupForm(d pageData) g.Node {
	st := stateOf(d.form)
	return formPanel(d.sent,
		g.Group([]g.Node{
			H3(g.Text("Account created!")),
			P(g.Text("Your account is ready. You can now "), A(Href(pages.Login.Path()), g.Text("log in")), g.Text(".")),
		}),
		Form(
			Method("post"),
			Action(pages.Signup.Path()),
			formAlert(st),
			Div(
				Class("field-row"),
				inputField(st, forms.FieldFirstName, "First name", "text", true),
				inputField(st, forms.FieldLastName, "Last name", "text", true),
			),
			inputField(st, forms.FieldEmail, "Email", "email", true),
			inputField(st, forms.FieldPassword, "Password", "password", true),
			inputField(st, forms.FieldConfirmPassword, "Confirm password", "password", true),
			Div(
				Class("field checkbox"),
				Label(
					Input(
						Type("checkbox"),
						Name(forms.FieldTerms),
						Value("on"),
						g.If(st.draft.Checked(forms.FieldTerms), Checked()),
					),
					g.Text(" I accept the terms and conditions"),
				),
				fieldError(st.errs.Field(forms.FieldTerms)),
			),
			submitButton("Create account", "Creating account..."),
		),
	)
}

func loginForm(d pageData) g.Node {
	st := stateOf(d.form)
	return Form(
		Method("post"),
		Action(pages.Login.Path()),
		Class("form-panel"),
		formAlert(st),
		inputField(st, forms.FieldEmail, "Email", "email", true),
		inputField(st, forms.FieldPassword, "Password", "password", true),
		submitButton("Log in", "Logging in..."),
	)
}
