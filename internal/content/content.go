// Package content renders the site's long-form page copy from embedded
// markdown.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

//go:embed pages/*.md
var pagesFS embed.FS

// Library holds rendered HTML keyed by document name ("about", "vision", ...).
type Library struct {
	docs map[string]string
}

// Load renders every embedded document.
func Load() (*Library, error) {
	return LoadFS(pagesFS, "pages")
}

// LoadFS renders every .md file directly under dir in fsys.
func LoadFS(fsys fs.FS, dir string) (*Library, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory: %w", err)
	}

	lib := &Library{docs: make(map[string]string)}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		src, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return nil, fmt.Errorf("converting %s: %w", e.Name(), err)
		}
		lib.docs[strings.TrimSuffix(e.Name(), ".md")] = buf.String()
	}
	return lib, nil
}

// HTML returns the rendered document, or "" when it does not exist.
func (l *Library) HTML(name string) string {
	if l == nil {
		return ""
	}
	return l.docs[name]
}

// Names returns the loaded document names.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.docs))
	for n := range l.docs {
		names = append(names, n)
	}
	return names
}
