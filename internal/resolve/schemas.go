// Package resolve finds the entities a top-level unit depends on: schema
// pointers embedded in specification text, table names reached through SQL
// clause patterns, and generated entities associated by naming convention.
// A reference to a name absent from the target index is never an error; it
// degrades to "no dependency".
package resolve

import (
	"regexp"

	"github.com/crosscache-dev/crosscache/internal/lineindex"
)

var reSchemaRef = regexp.MustCompile(`#/components/schemas/([A-Za-z0-9_]+)`)

// SchemaRefs returns the distinct schema names referenced by the unit's
// literal YAML text, in first-seen order.
func SchemaRefs(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range reSchemaRef.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Schemas resolves the referenced schema names against the schema index.
// Names the index does not know are silently dropped: the document may
// reference schemas outside the indexed scope.
func Schemas(text string, schemaIdx *lineindex.FileIndex) []lineindex.Entity {
	if schemaIdx == nil {
		return nil
	}
	var entities []lineindex.Entity
	for _, name := range SchemaRefs(text) {
		if e, ok := schemaIdx.Entities[name]; ok {
			entities = append(entities, e)
		}
	}
	return entities
}
