package pages

import "testing"

func TestResolveTiers(t *testing.T) {
	table := Default()
	cases := []struct {
		path    string
		ok      bool
		display string
	}{
		{"/", true, "the home page"},
		{"/about", true, "the about page"},
		{"/About/", true, "the about page"},
		{"/contact?ref=nav#form", true, "the contact page"},
		{"/sectors", true, "the sectors page"},
		{"/sectors/residential", true, "the residential sector page"},
		{"/sectors/public-sector", true, "the public sector sector page"},
		{"/products/ev-chargers", true, "the ev chargers product category page"},
		{"/products/ev-chargers/60kw", false, ""},
		{"/sectors/", true, "the sectors page"},
		{"/blog/launch", false, ""},
		{"", false, ""},
		{"   ", false, ""},
	}
	for _, tc := range cases {
		pc, ok := table.Resolve(tc.path)
		if ok != tc.ok {
			t.Fatalf("%q: ok=%v", tc.path, ok)
		}
		if ok && pc.DisplayName != tc.display {
			t.Fatalf("%q: display=%q", tc.path, pc.DisplayName)
		}
	}
}

func TestExactBeatsPrefix(t *testing.T) {
	table := NewTable(
		Rule{Match: Exact("/sectors/featured"), DisplayName: "featured"},
		Rule{Match: Prefix("/sectors"), DisplayName: "{slug} sector"},
	)
	pc, ok := table.Resolve("/sectors/featured")
	if !ok || pc.DisplayName != "featured" {
		t.Fatalf("pc=%+v ok=%v", pc, ok)
	}
	pc, _ = table.Resolve("/sectors/industrial")
	if pc.DisplayName != "industrial sector" {
		t.Fatalf("pc=%+v", pc)
	}
}

func TestDescriptionTemplate(t *testing.T) {
	pc, ok := Default().Resolve("/sectors/agriculture")
	if !ok || pc.Description != "solutions tailored to the agriculture sector" || pc.Path != "/sectors/agriculture" {
		t.Fatalf("pc=%+v", pc)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                               "",
		"/":                              "/",
		"about":                          "/about",
		"/Products///":                   "/products",
		"/sectors/x?y=1":                 "/sectors/x",
		"https://v.example/Services#faq": "/services",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q)=%q want %q", in, got, want)
		}
	}
}
