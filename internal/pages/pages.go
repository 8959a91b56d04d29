package pages

import (
	"net/url"
	"strings"
)

type PageContext struct {
	Path        string
	DisplayName string
	Description string
}

// Matcher reports whether path matches and, for parameterised routes, the slug.
type Matcher func(path string) (slug string, ok bool)

// Rule maps a path pattern to label and description templates. "{slug}" in a
// template is replaced with the matched slug, dashes rendered as spaces.
type Rule struct {
	Match       Matcher
	DisplayName string
	Description string
}

// Table is an ordered rule list; the first matching rule wins.
type Table struct {
	rules []Rule
}

func NewTable(rules ...Rule) *Table {
	return &Table{rules: append([]Rule(nil), rules...)}
}

// Exact matches a single fixed path.
func Exact(path string) Matcher {
	want := Normalize(path)
	return func(p string) (string, bool) {
		return "", p == want
	}
}

// Prefix matches prefix + "/" + exactly one non-empty segment.
func Prefix(prefix string) Matcher {
	base := Normalize(prefix) + "/"
	return func(p string) (string, bool) {
		if !strings.HasPrefix(p, base) {
			return "", false
		}
		slug := strings.TrimPrefix(p, base)
		if slug == "" || strings.Contains(slug, "/") {
			return "", false
		}
		return slug, true
	}
}

// Resolve returns the PageContext for path, or false when no rule matches.
func (t *Table) Resolve(path string) (PageContext, bool) {
	if t == nil {
		return PageContext{}, false
	}
	p := Normalize(path)
	if p == "" {
		return PageContext{}, false
	}
	for _, r := range t.rules {
		slug, ok := r.Match(p)
		if !ok {
			continue
		}
		human := strings.ReplaceAll(slug, "-", " ")
		return PageContext{
			Path:        p,
			DisplayName: strings.ReplaceAll(r.DisplayName, "{slug}", human),
			Description: strings.ReplaceAll(r.Description, "{slug}", human),
		}, true
	}
	return PageContext{}, false
}

// Normalize strips query and fragment, lower-cases, and drops a trailing slash.
// Blank input yields "".
func Normalize(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return ""
	}
	if u, err := url.Parse(p); err == nil && u.Path != "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.ToLower(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// Default is the site map of the public website.
func Default() *Table {
	return NewTable(
		Rule{Match: Exact("/"), DisplayName: "the home page", Description: "an overview of Voltera's energy solutions"},
		Rule{Match: Exact("/products"), DisplayName: "the products page", Description: "the full product catalog of chargers, solar, storage and heat pumps"},
		Rule{Match: Exact("/sectors"), DisplayName: "the sectors page", Description: "an overview of the sectors Voltera serves"},
		Rule{Match: Exact("/services"), DisplayName: "the services page", Description: "installation, maintenance, consultation and financing services"},
		Rule{Match: Exact("/about"), DisplayName: "the about page", Description: "the company's background, certifications and team"},
		Rule{Match: Exact("/contact"), DisplayName: "the contact page", Description: "the contact and quote request forms"},
		Rule{Match: Exact("/pricing"), DisplayName: "the pricing page", Description: "how projects are quoted; prices are given only in personalised quotes"},
		Rule{Match: Prefix("/sectors"), DisplayName: "the {slug} sector page", Description: "solutions tailored to the {slug} sector"},
		Rule{Match: Prefix("/products"), DisplayName: "the {slug} product category page", Description: "products in the {slug} category"},
	)
}
