package knowledge

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

type Topic string

const (
	TopicProduct Topic = "product"
	TopicService Topic = "service"
	TopicCompany Topic = "company"
	TopicSector  Topic = "sector"
)

func (t Topic) Valid() bool {
	switch t {
	case TopicProduct, TopicService, TopicCompany, TopicSector:
		return true
	default:
		return false
	}
}

type Snippet struct {
	ID       string   `yaml:"id"`
	Text     string   `yaml:"text"`
	Keywords []string `yaml:"keywords"`
	Topic    Topic    `yaml:"topic"`
}

// Store is a fixed, read-only snippet collection. Safe for concurrent use.
type Store struct {
	snippets []Snippet
	// terms holds each snippet's normalised keywords, index-aligned with snippets.
	terms [][]string
}

// NewStore validates and copies snippets in registration order.
func NewStore(snippets []Snippet) (*Store, error) {
	s := &Store{
		snippets: make([]Snippet, 0, len(snippets)),
		terms:    make([][]string, 0, len(snippets)),
	}
	seen := make(map[string]struct{}, len(snippets))
	for i, in := range snippets {
		id := strings.TrimSpace(in.ID)
		if id == "" {
			return nil, fmt.Errorf("snippet %d: id required", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("snippet %q: duplicate id", id)
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(in.Text) == "" {
			return nil, fmt.Errorf("snippet %q: text required", id)
		}
		if !in.Topic.Valid() {
			return nil, fmt.Errorf("snippet %q: unknown topic %q", id, in.Topic)
		}

		var kws []string
		dedupe := map[string]struct{}{}
		for _, kw := range in.Keywords {
			n := normalize(kw)
			if n == "" {
				continue
			}
			if _, ok := dedupe[n]; ok {
				continue
			}
			dedupe[n] = struct{}{}
			kws = append(kws, n)
		}
		if len(kws) == 0 {
			return nil, fmt.Errorf("snippet %q: at least one keyword required", id)
		}

		s.snippets = append(s.snippets, Snippet{
			ID:       id,
			Text:     strings.TrimSpace(in.Text),
			Keywords: append([]string(nil), kws...),
			Topic:    in.Topic,
		})
		s.terms = append(s.terms, kws)
	}
	return s, nil
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.snippets)
}

// All returns a copy of the corpus in registration order.
func (s *Store) All() []Snippet {
	if s == nil {
		return nil
	}
	return append([]Snippet(nil), s.snippets...)
}

type scored struct {
	idx   int
	score int
}

// Search ranks snippets by how many of their keywords occur in query.
// Zero-score snippets are dropped, ties keep registration order and at most
// maxResults snippets are returned.
func (s *Store) Search(query string, maxResults int) []Snippet {
	if s == nil || maxResults <= 0 {
		return []Snippet{}
	}
	q := normalize(query)
	if q == "" {
		return []Snippet{}
	}
	padded := " " + q + " "

	hits := make([]scored, 0, len(s.snippets))
	for i, kws := range s.terms {
		n := 0
		for _, kw := range kws {
			if containsTerm(padded, kw) {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, scored{idx: i, score: n})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })

	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	out := make([]Snippet, 0, len(hits))
	for _, h := range hits {
		out = append(out, s.snippets[h.idx])
	}
	return out
}

// containsTerm matches whole words only, tolerating a trailing plural "s".
func containsTerm(padded, term string) bool {
	return strings.Contains(padded, " "+term+" ") || strings.Contains(padded, " "+term+"s ")
}

// normalize lower-cases s and collapses every run of non-alphanumerics to one space.
func normalize(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}
