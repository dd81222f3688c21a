package lineindex

import (
	"regexp"
	"strings"
)

// exactly four spaces of indent, a bare schema name, no trailing content
var reSchemaHeader = regexp.MustCompile(`^\s{4}(\w+):\s*$`)

// SpecSchemasExtractor indexes entries of the schemas: section of an
// OpenAPI-style document. A schema runs from its header line until the next
// header or until a non-blank line indented by fewer than four spaces. The
// boundary is a heuristic, not a structural parse; trailing blank or comment
// lines may be over- or under-included.
type SpecSchemasExtractor struct{}

func (SpecSchemasExtractor) Format() string { return "spec-schemas" }

func (SpecSchemasExtractor) Extract(filePath string, lines []string) *FileIndex {
	idx := NewFileIndex(filePath, len(lines))

	inSchemas := false
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if !inSchemas {
			if trimmed == "schemas:" {
				inSchemas = true
			}
			i++
			continue
		}

		m := reSchemaHeader.FindStringSubmatch(line)
		if m == nil {
			i++
			continue
		}

		name := m[1]
		start := i + 1
		end := start
		j := i + 1
		for j < len(lines) {
			next := lines[j]
			if reSchemaHeader.MatchString(next) {
				break
			}
			// conservative termination: a non-blank line outdented past the
			// schema body ends the entity
			if strings.TrimSpace(next) != "" && !strings.HasPrefix(next, "    ") {
				break
			}
			end = j + 1
			j++
		}

		idx.add(Entity{
			Name:  name,
			Kind:  KindSchema,
			Range: LineRange{Start: start, End: end},
		})
		i = j
	}

	return idx
}
