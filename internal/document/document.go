// Package document exposes the small set of queries the study correlator
// needs over a parsed HTML page.
package document

import (
	"bytes"
	"context"
	"io"
	"strings"
	"wt-summariser/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Query matches elements by tag, class, id and attribute. Zero fields match
// anything. An empty Value with a non-empty Attr matches any element that
// carries the attribute.
type Query struct {
	// Tags are alternatives, Class is applied to each of them.
	Tags          []string
	Class         string
	ClassContains []string
	ID            string
	Attr          string
	Value         string
}

// ByAttr matches elements carrying attr, with the exact value when value is non-empty.
func ByAttr(attr, value string) Query {
	return Query{Attr: attr, Value: value}
}

// ByClass matches elements with class, restricted to the given tags when any are passed.
func ByClass(class string, tags ...string) Query {
	return Query{Tags: tags, Class: class}
}

// ByID matches the element with the given id.
func ByID(id string) Query {
	return Query{ID: id}
}

// Tag restricts q to the given tag names.
func (q Query) Tag(tags ...string) Query {
	q.Tags = tags
	return q
}

// Attribute values are always quoted, this escapes the quote and backslash
// so arbitrary ids cannot change the shape of the selector.
func quote(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}

func (q Query) selector() string {
	var suffix strings.Builder
	if q.ID != "" {
		suffix.WriteString("[id=")
		suffix.WriteString(quote(q.ID))
		suffix.WriteString("]")
	}
	if q.Class != "" {
		suffix.WriteString(".")
		suffix.WriteString(q.Class)
	}
	for _, part := range q.ClassContains {
		suffix.WriteString("[class*=")
		suffix.WriteString(quote(part))
		suffix.WriteString("]")
	}
	if q.Attr != "" {
		suffix.WriteString("[")
		suffix.WriteString(q.Attr)
		if q.Value != "" {
			suffix.WriteString("=")
			suffix.WriteString(quote(q.Value))
		}
		suffix.WriteString("]")
	}

	tags := q.Tags
	if len(tags) == 0 {
		tags = []string{""}
	}
	alternatives := make([]string, len(tags))
	for i, tag := range tags {
		alternatives[i] = tag + suffix.String()
	}
	selector := strings.Join(alternatives, ", ")
	if selector == "" {
		return "*"
	}
	return selector
}

// Element is a read-only view of one node in a document.
type Element interface {
	// Find returns all descendants matching q in document order.
	Find(q Query) []Element
	// First returns the first descendant matching q.
	First(q Query) (Element, bool)
	// Text returns the untrimmed text content of the element.
	Text() string
	Attr(name string) (string, bool)
	// Without returns a detached copy of the element with every descendant
	// matching one of the queries removed. The source document is unchanged.
	Without(queries ...Query) Element
	// Prev returns the immediately preceding sibling element.
	Prev() (Element, bool)
	// Is reports whether the element has the given tag name.
	Is(tag string) bool
	// Anchors returns the cleaned text and href resolved against base of
	// every descendant matching q that carries a usable href.
	Anchors(ctx context.Context, base string, q Query) []htmlutil.Anchor
}

type element struct {
	sel *goquery.Selection
}

func wrap(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, element{sel: s})
	})
	return out
}

func (e element) Find(q Query) []Element {
	return wrap(e.sel.Find(q.selector()))
}

func (e element) First(q Query) (Element, bool) {
	found := e.sel.Find(q.selector()).First()
	if found.Length() == 0 {
		return nil, false
	}
	return element{sel: found}, true
}

func (e element) Text() string {
	return e.sel.Text()
}

func (e element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e element) Without(queries ...Query) Element {
	clone := e.sel.Clone()
	for _, q := range queries {
		clone.Find(q.selector()).Remove()
	}
	return element{sel: clone}
}

func (e element) Prev() (Element, bool) {
	prev := e.sel.Prev()
	if prev.Length() == 0 {
		return nil, false
	}
	return element{sel: prev}, true
}

func (e element) Is(tag string) bool {
	return e.sel.Is(tag)
}

func (e element) Anchors(ctx context.Context, base string, q Query) []htmlutil.Anchor {
	return htmlutil.GetAnchors(ctx, base, e.sel.Find(q.selector()))
}

// TextOf concatenates the text of every element, the way a multi-element
// selection reads as one string.
func TextOf(elements []Element) string {
	var sb strings.Builder
	for _, e := range elements {
		sb.WriteString(e.Text())
	}
	return sb.String()
}

// Document is a parsed page. Unlike Element it can be mutated, but only by
// stripping nodes, which the loader does once before handing the root out.
type Document struct {
	doc *goquery.Document
}

func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

func ParseBytes(body []byte) (*Document, error) {
	return Parse(bytes.NewReader(body))
}

// Strip removes every node matching one of the queries.
func (d *Document) Strip(queries ...Query) {
	for _, q := range queries {
		d.doc.Find(q.selector()).Remove()
	}
}

// Root returns the document element.
func (d *Document) Root() Element {
	return element{sel: d.doc.Selection}
}
