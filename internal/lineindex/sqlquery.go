package lineindex

import "regexp"

// -- name: GetAuthor :one
var reQueryMarker = regexp.MustCompile(`^--\s*name:\s*(\w+)\s*:(\w+)`)

// SQLQueryExtractor indexes named queries in a sqlc-style query document.
// Each query runs from its marker comment line until the line before the
// next marker, or end of file for the last one.
type SQLQueryExtractor struct{}

func (SQLQueryExtractor) Format() string { return "sql-query" }

func (SQLQueryExtractor) Extract(filePath string, lines []string) *FileIndex {
	idx := NewFileIndex(filePath, len(lines))

	openName := ""
	openMode := ""
	openStart := 0

	for i, line := range lines {
		m := reQueryMarker.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if openName != "" {
			idx.add(Entity{
				Name:  openName,
				Kind:  KindSQLQuery,
				Range: LineRange{Start: openStart, End: i},
				Mode:  openMode,
			})
		}
		openName = m[1]
		openMode = m[2]
		openStart = i + 1
	}

	if openName != "" {
		idx.add(Entity{
			Name:  openName,
			Kind:  KindSQLQuery,
			Range: LineRange{Start: openStart, End: len(lines)},
			Mode:  openMode,
		})
	}

	return idx
}
