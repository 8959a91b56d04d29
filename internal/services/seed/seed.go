package seed

import _ "embed"

//go:embed catalog.yaml
var CatalogYAML []byte

//go:embed content.yaml
var ContentYAML []byte
