package knowledge

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed snippets.yaml
var defaultSnippetsYAML []byte

type snippetFile struct {
	Snippets []Snippet `yaml:"snippets"`
}

// Parse decodes a YAML snippet corpus into a Store.
func Parse(b []byte) (*Store, error) {
	var f snippetFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse snippets: %w", err)
	}
	return NewStore(f.Snippets)
}

// LoadDefault returns the store built from the embedded corpus.
func LoadDefault() (*Store, error) {
	return Parse(defaultSnippetsYAML)
}
