package lineindex

import (
	"regexp"
	"strings"
)

var (
	reCreateTable    = regexp.MustCompile(`(?i)^\s*create\s+table\s+(?:if\s+not\s+exists\s+)?(\w+)`)
	reCreateType     = regexp.MustCompile(`(?i)^\s*create\s+type\s+(\w+)`)
	reCreateFunction = regexp.MustCompile(`(?i)^\s*create\s+function\s+(\w+)`)
)

// SQLSchemaExtractor indexes CREATE TABLE / TYPE / FUNCTION statements in a
// schema document. An entity runs from its opening line until the first line
// whose trimmed content begins with a statement terminator. Only one entity
// is open at a time; a new opener force-closes the previous one at the prior
// line. Unterminated statements are closed at end of file.
type SQLSchemaExtractor struct{}

func (SQLSchemaExtractor) Format() string { return "sql-schema" }

func (SQLSchemaExtractor) Extract(filePath string, lines []string) *FileIndex {
	idx := NewFileIndex(filePath, len(lines))

	openName := ""
	openKind := Kind("")
	openStart := 0

	flush := func(end int) {
		if openName == "" {
			return
		}
		if end < openStart {
			end = openStart
		}
		idx.add(Entity{
			Name:  openName,
			Kind:  openKind,
			Range: LineRange{Start: openStart, End: end},
		})
		openName = ""
	}

	for i, line := range lines {
		lineno := i + 1

		kind, name := matchSQLOpener(line)
		if name != "" {
			flush(lineno - 1)
			openName = name
			openKind = kind
			openStart = lineno
			continue
		}

		if openName != "" && strings.HasPrefix(strings.TrimSpace(line), ";") {
			flush(lineno)
		}
	}
	flush(len(lines))

	return idx
}

func matchSQLOpener(line string) (Kind, string) {
	if m := reCreateTable.FindStringSubmatch(line); m != nil {
		return KindSQLTable, m[1]
	}
	if m := reCreateType.FindStringSubmatch(line); m != nil {
		return KindSQLType, m[1]
	}
	if m := reCreateFunction.FindStringSubmatch(line); m != nil {
		return KindSQLFunction, m[1]
	}
	return "", ""
}
