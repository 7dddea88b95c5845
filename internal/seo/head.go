package seo

import (
	"strings"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/lumenforge/website/internal/pages"
)

// Tag is a keyed head element such as <meta name="description" content="...">.
// Element, KeyAttr and Key identify the tag; ValueAttr holds its value.
type Tag struct {
	Element   string
	KeyAttr   string
	Key       string
	ValueAttr string
	Value     string
}

func (t Tag) sameSlot(o Tag) bool {
	return t.Element == o.Element && t.KeyAttr == o.KeyAttr && strings.EqualFold(t.Key, o.Key)
}

// Head is an in-memory document head. Apply overwrites the tags it owns
// and leaves every other tag alone.
type Head struct {
	Title string
	Tags  []Tag
}

// Set overwrites the tag occupying the same slot, or appends it.
func (h *Head) Set(tag Tag) {
	for i := range h.Tags {
		if h.Tags[i].sameSlot(tag) {
			h.Tags[i].ValueAttr = tag.ValueAttr
			h.Tags[i].Value = tag.Value
			return
		}
	}
	h.Tags = append(h.Tags, tag)
}

// Find returns the tag in the given slot.
func (h *Head) Find(element, keyAttr, key string) (Tag, bool) {
	want := Tag{Element: element, KeyAttr: keyAttr, Key: key}
	for _, t := range h.Tags {
		if t.sameSlot(want) {
			return t, true
		}
	}
	return Tag{}, false
}

// Apply synchronises the title, description, canonical link and the
// Open Graph and Twitter duplicates with m. Calling it twice with the same
// arguments leaves the head unchanged.
func (h *Head) Apply(m Meta, baseURL string) {
	canonical := CanonicalURL(baseURL, m.Canonical)

	h.Title = m.Title
	h.Set(metaName("description", m.Description))
	h.Set(Tag{Element: "link", KeyAttr: "rel", Key: "canonical", ValueAttr: "href", Value: canonical})
	h.Set(metaProperty("og:title", m.Title))
	h.Set(metaProperty("og:description", m.Description))
	h.Set(metaProperty("og:url", canonical))
	h.Set(metaName("twitter:title", m.Title))
	h.Set(metaName("twitter:description", m.Description))
}

// Sync applies the metadata registered for p.
func Sync(h *Head, p pages.Page, baseURL string) {
	h.Apply(Lookup(p), baseURL)
}

// Nodes renders the head contents.
func (h *Head) Nodes() []g.Node {
	nodes := make([]g.Node, 0, len(h.Tags)+1)
	nodes = append(nodes, html.TitleEl(g.Text(h.Title)))
	for _, t := range h.Tags {
		nodes = append(nodes, g.El(t.Element, g.Attr(t.KeyAttr, t.Key), g.Attr(t.ValueAttr, t.Value)))
	}
	return nodes
}

// CanonicalURL joins a base URL and a site path.
func CanonicalURL(baseURL, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(baseURL, "/") + path
}

func metaName(name, content string) Tag {
	return Tag{Element: "meta", KeyAttr: "name", Key: name, ValueAttr: "content", Value: content}
}

func metaProperty(property, content string) Tag {
	return Tag{Element: "meta", KeyAttr: "property", Key: property, ValueAttr: "content", Value: content}
}
