package knowledge

import (
	"strings"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore([]Snippet{
		{ID: "a", Text: "chargers", Keywords: []string{"EV", "charger"}, Topic: TopicProduct},
		{ID: "b", Text: "solar", Keywords: []string{"solar", "panel"}, Topic: TopicProduct},
		{ID: "c", Text: "install", Keywords: []string{"installation", "charger"}, Topic: TopicService},
		{ID: "d", Text: "fast", Keywords: []string{"fast charger", "ev", "charger"}, Topic: TopicProduct},
		{ID: "e", Text: "homes", Keywords: []string{"residential", "solar"}, Topic: TopicSector},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func ids(snippets []Snippet) string {
	out := make([]string, 0, len(snippets))
	for _, s := range snippets {
		out = append(out, s.ID)
	}
	return strings.Join(out, ",")
}

func TestSearchScoresAndOrders(t *testing.T) {
	s := testStore(t)
	// d scores 3 (fast charger, ev, charger); a scores 2; c scores 1.
	got := s.Search("Do you sell a FAST charger for my EV?", 10)
	if ids(got) != "d,a,c" {
		t.Fatalf("got %s", ids(got))
	}
}

func TestSearchTiesKeepRegistrationOrder(t *testing.T) {
	s := testStore(t)
	got := s.Search("solar", 10)
	if ids(got) != "b,e" {
		t.Fatalf("got %s", ids(got))
	}
}

func TestSearchTruncates(t *testing.T) {
	s := testStore(t)
	got := s.Search("fast charger ev installation solar", 2)
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	if ids(got) != "d,a" {
		t.Fatalf("got %s", ids(got))
	}
}

func TestSearchNoOverlapIsEmpty(t *testing.T) {
	s := testStore(t)
	for _, q := range []string{"", "   ", "weather tomorrow", "every evening"} {
		if got := s.Search(q, 5); len(got) != 0 {
			t.Fatalf("query %q: got %s", q, ids(got))
		}
	}
}

func TestSearchNonPositiveMax(t *testing.T) {
	s := testStore(t)
	if got := s.Search("solar", 0); len(got) != 0 {
		t.Fatalf("got %s", ids(got))
	}
	if got := s.Search("solar", -1); len(got) != 0 {
		t.Fatalf("got %s", ids(got))
	}
}

func TestSearchAcceptsPlural(t *testing.T) {
	s := testStore(t)
	if got := s.Search("solar panels", 1); ids(got) != "b" {
		t.Fatalf("got %s", ids(got))
	}
}

func TestNewStoreValidation(t *testing.T) {
	cases := map[string][]Snippet{
		"missing id":    {{Text: "x", Keywords: []string{"k"}, Topic: TopicCompany}},
		"duplicate id":  {{ID: "a", Text: "x", Keywords: []string{"k"}, Topic: TopicCompany}, {ID: "a", Text: "y", Keywords: []string{"k"}, Topic: TopicCompany}},
		"bad topic":     {{ID: "a", Text: "x", Keywords: []string{"k"}, Topic: "weather"}},
		"no keywords":   {{ID: "a", Text: "x", Keywords: []string{" ", "--"}, Topic: TopicCompany}},
		"missing text":  {{ID: "a", Keywords: []string{"k"}, Topic: TopicCompany}},
	}
	for name, in := range cases {
		if _, err := NewStore(in); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestNewStoreNormalisesKeywords(t *testing.T) {
	s, err := NewStore([]Snippet{{ID: "a", Text: "x", Keywords: []string{"Heat-Pump", "heat pump", "HVAC"}, Topic: TopicProduct}})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	got := s.All()[0].Keywords
	if strings.Join(got, "|") != "heat pump|hvac" {
		t.Fatalf("keywords=%v", got)
	}
}

func TestLoadDefault(t *testing.T) {
	s, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if s.Len() == 0 {
		t.Fatalf("empty corpus")
	}
	got := s.Search("What is the price of the EV charger?", 5)
	if len(got) == 0 || got[0].ID != "ev-chargers" {
		t.Fatalf("got %s", ids(got))
	}
	for _, sn := range s.All() {
		if strings.ContainsAny(sn.Text, "$€£") {
			t.Fatalf("snippet %s quotes a currency amount", sn.ID)
		}
	}
}
