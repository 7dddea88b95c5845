package web

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/lumenforge/website/internal/backend"
	"github.com/lumenforge/website/internal/forms"
)

// maxFieldBytes caps a single text field of a multipart post.
const maxFieldBytes = 64 << 10

var (
	errResumeTooLarge = errors.New("resume exceeds the upload limit")
	errFieldTooLarge  = errors.New("form field exceeds the size limit")
)

// readCareersPost streams a careers post part by part. Text fields are kept
// as they arrive, so on error the values read so far are still returned and
// the form can be re-rendered with them. A post that is not multipart falls
// back to the url-encoded form.
func readCareersPost(r *http.Request) (url.Values, *backend.Upload, error) {
	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
		return r.PostForm, nil, err
	}
	values := url.Values{}
	if err != nil {
		return values, nil, err
	}

	var resume *backend.Upload
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return values, resume, nil
		}
		if err != nil {
			return values, resume, err
		}

		switch {
		case part.FormName() == forms.FieldResume && part.FileName() != "":
			resume, err = readResume(part)
		case part.FileName() != "":
			_, err = io.Copy(io.Discard, part)
		default:
			var v string
			if v, err = readField(part); err == nil {
				values.Add(part.FormName(), v)
			}
		}
		part.Close()
		if err != nil {
			return values, resume, err
		}
	}
}

func readResume(part *multipart.Part) (*backend.Upload, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(part, forms.MaxResumeBytes+1))
	if err != nil {
		return nil, err
	}
	if n > forms.MaxResumeBytes {
		return nil, errResumeTooLarge
	}
	return &backend.Upload{
		Name:        part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		Size:        n,
		Body:        bytes.NewReader(buf.Bytes()),
	}, nil
}

func readField(part io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
	if err != nil {
		return "", err
	}
	if len(b) > maxFieldBytes {
		return "", errFieldTooLarge
	}
	return string(b), nil
}
