// Package assemble joins a top-level unit (an API operation or a SQL query)
// with the resolved text of everything it references and writes one
// self-contained bundle per unit.
package assemble

import "github.com/crosscache-dev/crosscache/internal/lineindex"

// Unit kinds.
const (
	UnitOperation = "operation"
	UnitQuery     = "query"
)

// Dependency is a resolved reference from a unit to an entity in another
// index. Text is the literal slice of the referenced file covering Range,
// re-read from the live file at assembly time so it can never go stale
// between an index rebuild and assembly.
type Dependency struct {
	Name  string              `json:"name"`
	Kind  lineindex.Kind      `json:"kind"`
	File  string              `json:"file"`
	Range lineindex.LineRange `json:"range"`
	Text  string              `json:"text"`
}

// GeneratedRef is a generated-source entity associated with a unit. Code
// comes from the generated index's text snapshot.
type GeneratedRef struct {
	Name  string              `json:"name"`
	Kind  lineindex.Kind      `json:"kind"`
	File  string              `json:"file"`
	Range lineindex.LineRange `json:"range"`
	Code  string              `json:"code"`
}

// UnitCache is the final artifact for one unit. It is rebuilt in full on
// every run; nothing in it is incrementally patched.
type UnitCache struct {
	UnitID       string              `json:"unit_id"`
	UnitKind     string              `json:"unit_kind"`
	Method       string              `json:"method,omitempty"`
	Path         string              `json:"path,omitempty"`
	Mode         string              `json:"mode,omitempty"`
	SourceFile   string              `json:"source_file"`
	Range        lineindex.LineRange `json:"range"`
	Text         string              `json:"text"`
	Dependencies []Dependency        `json:"dependencies"`
	Generated    []GeneratedRef      `json:"generated"`
}

// FileName returns the bundle file name for the unit, derived
// deterministically from its identifier.
func (u *UnitCache) FileName() string {
	if u.UnitKind == UnitOperation {
		return u.UnitID + ".api.cache.json"
	}
	return u.UnitID + ".cache.json"
}
