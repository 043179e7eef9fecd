package locator

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// Anchor is a link found on the report index page.
type Anchor struct {
	Href string
	Text string
}

// Predicate decides whether an anchor points at the data file.
type Predicate func(a Anchor) bool

// TextContains matches anchors whose visible text contains any of the phrases, ignoring case.
func TextContains(phrases ...string) Predicate {
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			lowered = append(lowered, p)
		}
	}
	return func(a Anchor) bool {
		text := strings.ToLower(a.Text)
		for _, p := range lowered {
			if strings.Contains(text, p) {
				return true
			}
		}
		return false
	}
}

// HasExtension matches anchors whose href path ends in one of the extensions.
// Query strings and fragments are ignored.
func HasExtension(exts ...string) Predicate {
	return func(a Anchor) bool {
		p := a.Href
		if u, err := url.Parse(a.Href); err == nil {
			p = u.Path
		}
		ext := strings.ToLower(path.Ext(p))
		if ext == "" {
			return false
		}
		for _, e := range exts {
			e = strings.ToLower(e)
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			if ext == e {
				return true
			}
		}
		return false
	}
}

// All matches when every predicate matches.
func All(preds ...Predicate) Predicate {
	return func(a Anchor) bool {
		for _, p := range preds {
			if !p(a) {
				return false
			}
		}
		return true
	}
}

// Options configure the default predicate.
type Options struct {
	Phrases    []string
	Extensions []string
	Strict     bool
}

func DefaultOptions() Options {
	return Options{
		Phrases:    []string{"excess", "weekly deaths data"},
		Extensions: []string{".xlsx", ".xls"},
		Strict:     true,
	}
}

// Locator finds the first anchor on a page accepted by its predicate.
type Locator struct {
	match Predicate
}

func NewLocator(opts Options) *Locator {
	match := TextContains(opts.Phrases...)
	if opts.Strict {
		match = All(match, HasExtension(opts.Extensions...))
	}
	return &Locator{match: match}
}

// NewLocatorWithPredicate builds a locator around a custom predicate.
func NewLocatorWithPredicate(match Predicate) *Locator {
	return &Locator{match: match}
}

// Locate returns the href of the first matching anchor in document order.
// A page without a match is not an error.
func (l *Locator) Locate(document string) (string, bool) {
	for _, a := range Anchors(document) {
		if l.match(a) {
			return a.Href, true
		}
	}
	return "", false
}

// Anchors lists every <a href> element in document order.
func Anchors(document string) []Anchor {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return nil
	}

	var anchors []Anchor
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := getAttr(n, "href"); ok {
				var sb strings.Builder
				collectText(n, &sb)
				anchors = append(anchors, Anchor{
					Href: strings.TrimSpace(href),
					Text: strings.Join(strings.Fields(sb.String()), " "),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return anchors
}

// Resolve turns a possibly relative href into an absolute URL using the page URL as base.
func Resolve(base, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	if ref.IsAbs() || base == "" {
		return ref.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	return b.ResolveReference(ref).String(), nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
