package forms

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lumenforge/website/internal/backend"
	"github.com/lumenforge/website/internal/clientmeta"
	"github.com/lumenforge/website/internal/mailrelay"
)

// Careers form fields.
const (
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldPhone      = "phone"
	FieldPosition   = "position"
	FieldStartDay   = "startDay"
	FieldStartMonth = "startMonth"
	FieldStartYear  = "startYear"
	FieldLinkedIn   = "linkedinUrl"
	FieldResume     = "resume"
)

// MaxResumeBytes caps the resume upload.
const MaxResumeBytes = 10 << 20

// resumeTypes maps accepted extensions to their content type.
var resumeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Positions lists the roles offered in the careers form.
var Positions = []string{
	"Software Engineer",
	"Cloud Architect",
	"Data Engineer",
	"AI/ML Engineer",
	"DevOps Engineer",
	"Project Manager",
	"Other",
}

// ApplicationStore persists job applications.
type ApplicationStore interface {
	InsertJobApplication(ctx context.Context, a backend.JobApplication) (string, error)
}

// CareersFlow uploads the resume, stores the application and notifies the
// careers inbox.
type CareersFlow struct {
	Files     backend.Files
	Store     ApplicationStore
	Meta      MetaResolver
	Notifier  Notifier // optional
	Resume    *backend.Upload
	UserAgent string
}

// Validate checks the draft and resume without any network calls.
func (f CareersFlow) Validate(d Draft) error {
	var v ValidationErrors
	v.required(d, FieldFirstName, "First name")
	v.required(d, FieldLastName, "Last name")
	v.email(d, FieldEmail)
	v.required(d, FieldPosition, "Position")

	if u := d.Get(FieldLinkedIn); u != "" && !isWebURL(u) {
		v.Add(FieldLinkedIn, "LinkedIn URL must start with http:// or https://.")
	}
	if _, err := StartDate(d.Get(FieldStartDay), d.Get(FieldStartMonth), d.Get(FieldStartYear)); err != nil {
		v.Add(FieldStartDay, err.Error())
	}
	if err := checkResume(f.Resume); err != nil {
		v.Add(FieldResume, err.Error())
	}
	return v.Err()
}

// Run validates, uploads the resume, stores the application, then sends the
// notification. The upload must succeed before the insert is attempted.
func (f CareersFlow) Run(ctx context.Context, d Draft) Result {
	if err := f.Validate(d); err != nil {
		return Fail(err)
	}
	if f.Files == nil {
		return Fail(&backend.ProviderError{Op: "upload resume", Message: "Resume uploads are not available right now. Please email us instead."})
	}

	upload := *f.Resume
	upload.ContentType = resumeContentType(upload)
	key, err := f.Files.Upload(ctx, upload)
	if err != nil {
		return Fail(err)
	}
	resumeURL := f.Files.PublicURL(key)

	startDate, _ := StartDate(d.Get(FieldStartDay), d.Get(FieldStartMonth), d.Get(FieldStartYear))

	meta := clientmeta.Meta{UserAgent: f.UserAgent}
	if f.Meta != nil {
		meta = f.Meta.Resolve(ctx, f.UserAgent)
	}

	app := backend.JobApplication{
		FirstName:   d.Get(FieldFirstName),
		LastName:    d.Get(FieldLastName),
		Email:       d.Get(FieldEmail),
		Phone:       d.Get(FieldPhone),
		Position:    d.Get(FieldPosition),
		StartDate:   startDate,
		ResumeURL:   resumeURL,
		LinkedInURL: d.Get(FieldLinkedIn),
		IPAddress:   meta.IP,
		UserAgent:   meta.UserAgent,
	}
	if _, err := f.Store.InsertJobApplication(ctx, app); err != nil {
		return Fail(err)
	}

	if f.Notifier == nil {
		return Done()
	}
	err = f.Notifier.SendCareersEmail(ctx, mailrelay.CareersEmail{
		FirstName:   app.FirstName,
		LastName:    app.LastName,
		Email:       app.Email,
		Phone:       app.Phone,
		Position:    app.Position,
		StartDate:   app.StartDate,
		ResumeURL:   app.ResumeURL,
		LinkedInURL: app.LinkedInURL,
	})
	if err != nil {
		return Done(fmt.Errorf("careers notification: %w", err))
	}
	return Done()
}

// StartDate joins the day, month and year inputs into YYYY-MM-DD. It
// returns "" unless all three are present, and an error when they do not
// form a real calendar date.
func StartDate(day, month, year string) (string, error) {
	if day == "" || month == "" || year == "" {
		return "", nil
	}
	d, errD := strconv.Atoi(day)
	m, errM := strconv.Atoi(month)
	y, errY := strconv.Atoi(year)
	if errD != nil || errM != nil || errY != nil {
		return "", errors.New("Start date must be numeric.")
	}
	if y < 1000 || y > 9999 || m < 1 || m > 12 || d < 1 {
		return "", errors.New("Start date is not a valid date.")
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return "", errors.New("Start date is not a valid date.")
	}
	return t.Format(time.DateOnly), nil
}

func checkResume(u *backend.Upload) error {
	if u == nil || u.Body == nil {
		return errors.New("Please attach your resume.")
	}
	ext := strings.ToLower(filepath.Ext(u.Name))
	want, ok := resumeTypes[ext]
	if !ok {
		return errors.New("Resume must be a PDF, DOC or DOCX file.")
	}
	if ct := mediaType(u.ContentType); ct != "" && ct != "application/octet-stream" && ct != want {
		return errors.New("Resume must be a PDF, DOC or DOCX file.")
	}
	if u.Size > MaxResumeBytes {
		return fmt.Errorf("Resume must be smaller than %d MB.", MaxResumeBytes>>20)
	}
	return nil
}

// resumeContentType prefers the type implied by the extension, since
// browsers often send application/octet-stream for Word files.
func resumeContentType(u backend.Upload) string {
	if ct, ok := resumeTypes[strings.ToLower(filepath.Ext(u.Name))]; ok {
		return ct
	}
	return u.ContentType
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mt
}
