package resolve

import (
	"regexp"
	"sort"
	"strings"

	"github.com/crosscache-dev/crosscache/internal/lineindex"
)

// Table candidates are only taken from positions where SQL grammar puts a
// table name. A bare identifier elsewhere (a column, an alias) never counts.
var tableClausePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bFROM\s+(\w+)`),
	regexp.MustCompile(`(?i)\bJOIN\s+(\w+)`),
	regexp.MustCompile(`(?i)\bINTO\s+(\w+)`),
	regexp.MustCompile(`(?i)\bUPDATE\s+(\w+)`),
	regexp.MustCompile(`(?i)\bDELETE\s+FROM\s+(\w+)`),
	regexp.MustCompile(`(?i)\bINSERT\s+INTO\s+(\w+)`),
}

var sqlReservedWords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "JOIN": true, "INNER": true,
	"LEFT": true, "RIGHT": true, "FULL": true, "OUTER": true, "ON": true,
	"AS": true, "AND": true, "OR": true, "NOT": true, "IN": true,
	"EXISTS": true, "UNION": true, "INSERT": true, "UPDATE": true,
	"DELETE": true, "INTO": true, "SET": true, "VALUES": true, "WITH": true,
	"GROUP": true, "ORDER": true, "BY": true, "HAVING": true, "LIMIT": true,
	"OFFSET": true, "DISTINCT": true, "ALL": true, "ANY": true, "CASE": true,
	"WHEN": true, "THEN": true, "ELSE": true, "END": true, "CAST": true,
	"COALESCE": true, "NULL": true, "TRUE": true, "FALSE": true, "IS": true,
	"LIKE": true, "ILIKE": true, "BETWEEN": true, "ASC": true, "DESC": true,
}

// TableNames extracts candidate table names from literal SQL text, filters
// out reserved words, and returns the survivors sorted. The original
// pipeline iterated the candidate set in hash order; sorting here keeps
// assembled bundles byte-stable across runs.
func TableNames(sql string) []string {
	set := make(map[string]bool)
	for _, pattern := range tableClausePatterns {
		for _, m := range pattern.FindAllStringSubmatch(sql, -1) {
			name := strings.TrimSpace(m[1])
			if name == "" || sqlReservedWords[strings.ToUpper(name)] {
				continue
			}
			set[name] = true
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tables resolves the table names referenced by query SQL against the
// schema index. Unknown names are dropped.
func Tables(sql string, schemaIdx *lineindex.FileIndex) []lineindex.Entity {
	if schemaIdx == nil {
		return nil
	}
	var entities []lineindex.Entity
	for _, name := range TableNames(sql) {
		if e, ok := schemaIdx.Entities[name]; ok {
			entities = append(entities, e)
		}
	}
	return entities
}
