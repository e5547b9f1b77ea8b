// Package schema generates JSON Schema from the frametrace config types.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/smykla-skalski/frametrace/pkg/config"
)

const (
	schemaURI = "https://json-schema.org/draft/2020-12/schema"
	title     = "frametrace configuration"
	baseURL   = "https://raw.githubusercontent.com/smykla-skalski/frametrace/main/schema/"
)

// Filename returns the versioned schema file name, e.g. "config.v1.json".
func Filename() string {
	return fmt.Sprintf("config.v%d.json", config.CurrentConfigVersion)
}

// URL returns the published location of the schema.
func URL() string {
	return baseURL + Filename()
}

// SchemaDirective returns the Taplo directive that binds a TOML file to the schema.
func SchemaDirective() string {
	return "#:schema " + URL()
}

// Generate produces a JSON Schema from the config.Config struct.
func Generate() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	s := r.Reflect(&config.Config{})
	s.Version = schemaURI
	s.Title = title
	s.ID = jsonschema.ID(URL())

	return s
}

// GenerateJSON produces a JSON Schema as bytes.
// When indent is true, the output is pretty-printed.
func GenerateJSON(indent bool) ([]byte, error) {
	s := Generate()

	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}

	if err != nil {
		return nil, errors.Wrap(err, "marshaling schema to JSON")
	}

	// Append trailing newline for file output.
	return append(data, '\n'), nil
}
