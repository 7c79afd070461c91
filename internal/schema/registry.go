package schema

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed schemas/*.graphql
var schemaFS embed.FS

// Schema is one DefraDB collection definition.
type Schema struct {
	Name  string // collection name, e.g. "FormTemplate"
	SDL   string
	Order int // lower is applied first
}

// Collection names.
const (
	FormTemplate = "FormTemplate"
	FormResponse = "FormResponse"
)

var registry = []Schema{
	{Name: FormTemplate, Order: 1},
	{Name: FormResponse, Order: 2}, // references FormTemplate by form_id
}

// All returns all schemas in application order, SDL loaded from the embedded
// .graphql files.
func All() ([]Schema, error) {
	schemas := make([]Schema, 0, len(registry))
	for _, s := range registry {
		loaded, err := load(s)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, loaded)
	}
	sort.Slice(schemas, func(i, j int) bool {
		return schemas[i].Order < schemas[j].Order
	})
	return schemas, nil
}

// Get returns a single schema by collection name.
func Get(name string) (*Schema, error) {
	for _, s := range registry {
		if s.Name == name {
			loaded, err := load(s)
			if err != nil {
				return nil, err
			}
			return &loaded, nil
		}
	}
	return nil, fmt.Errorf("schema not found: %s", name)
}

func load(s Schema) (Schema, error) {
	filename := "schemas/" + strings.ToLower(s.Name) + ".graphql"
	content, err := schemaFS.ReadFile(filename)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read schema %s: %w", s.Name, err)
	}
	s.SDL = string(content)
	return s, nil
}
