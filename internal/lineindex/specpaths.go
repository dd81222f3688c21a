package lineindex

import (
	"regexp"
	"strings"
)

var (
	// exactly two spaces of indent, a key starting with '/'
	rePathKey = regexp.MustCompile(`^\s{2}(/.+):\s*$`)
	// exactly four spaces of indent, a standard HTTP method token
	reMethodKey = regexp.MustCompile(`(?i)^\s{4}(get|post|put|delete|patch|options|head):\s*$`)
)

// SpecPathsExtractor indexes operations declared under the root paths:
// section of an OpenAPI-style document. An operation's range runs from its
// enclosing path-key line to the line before the next path key or the
// components: root section, so the wrapper lines are part of the span.
// Operations without an operationId are skipped. Indexing stops entirely at
// the first components: line.
type SpecPathsExtractor struct{}

func (SpecPathsExtractor) Format() string { return "spec-paths" }

func (SpecPathsExtractor) Extract(filePath string, lines []string) *FileIndex {
	idx := NewFileIndex(filePath, len(lines))

	inPaths := false
	currentPath := ""
	currentPathLine := 0

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if !inPaths {
			if trimmed == "paths:" {
				inPaths = true
			}
			i++
			continue
		}

		if strings.HasPrefix(trimmed, "components:") {
			break
		}

		if m := rePathKey.FindStringSubmatch(line); m != nil {
			currentPath = m[1]
			currentPathLine = i + 1
			i++
			continue
		}

		if m := reMethodKey.FindStringSubmatch(line); m != nil && currentPath != "" {
			method := strings.ToUpper(m[1])
			i++
			idx.indexOperation(lines, i, currentPath, currentPathLine, method)
			continue
		}

		i++
	}

	return idx
}

// indexOperation scans forward from the line after a method key looking for
// an operationId field, then extends the range until the next path key or
// the components: section.
func (idx *FileIndex) indexOperation(lines []string, from int, path string, pathLine int, method string) {
	for j := from; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])

		if rePathKey.MatchString(lines[j]) || strings.HasPrefix(trimmed, "components:") {
			return
		}

		if !strings.HasPrefix(trimmed, "operationId:") {
			continue
		}

		opID := strings.TrimSpace(strings.TrimPrefix(trimmed, "operationId:"))
		end := j + 1
		for k := j + 1; k < len(lines); k++ {
			t := strings.TrimSpace(lines[k])
			if rePathKey.MatchString(lines[k]) || strings.HasPrefix(t, "components:") {
				break
			}
			end = k + 1
		}

		if opID != "" {
			idx.add(Entity{
				Name:   opID,
				Kind:   KindHTTPOperation,
				Range:  LineRange{Start: pathLine, End: end},
				Method: method,
				Path:   path,
			})
		}
		return
	}
}
