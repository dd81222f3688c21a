package assemble

import (
	"fmt"
	"path/filepath"

	"github.com/crosscache-dev/crosscache/internal/config"
	"github.com/crosscache-dev/crosscache/internal/fileutil"
	"github.com/crosscache-dev/crosscache/internal/lineindex"
	"github.com/crosscache-dev/crosscache/internal/resolve"
)

// Indices are the per-format file indices one run works against.
type Indices struct {
	SpecPaths   *lineindex.FileIndex
	SpecSchemas *lineindex.FileIndex
	SQLSchema   *lineindex.FileIndex
	SQLQueries  *lineindex.FileIndex
	Generated   []*lineindex.FileIndex
}

// Assembler builds unit caches against resolved configuration paths.
type Assembler struct {
	cfg *config.Resolved
}

func New(cfg *config.Resolved) *Assembler {
	return &Assembler{cfg: cfg}
}

// Operation assembles the bundle for one http-operation entity. The unit's
// own text and every dependency's text are re-read from the live files, not
// served from any cache.
func (a *Assembler) Operation(op lineindex.Entity, ix Indices) (*UnitCache, error) {
	text, err := fileutil.ReadRange(a.cfg.SpecPath, op.Range.Start, op.Range.End)
	if err != nil {
		return nil, fmt.Errorf("failed to read operation %s: %w", op.Name, err)
	}

	unit := &UnitCache{
		UnitID:       op.Name,
		UnitKind:     UnitOperation,
		Method:       op.Method,
		Path:         op.Path,
		SourceFile:   a.cfg.Rel(a.cfg.SpecPath),
		Range:        op.Range,
		Text:         text,
		Dependencies: make([]Dependency, 0),
		Generated:    make([]GeneratedRef, 0),
	}

	for _, schema := range resolve.Schemas(text, ix.SpecSchemas) {
		dep, err := a.materialize(a.cfg.SpecPath, schema)
		if err != nil {
			return nil, err
		}
		unit.Dependencies = append(unit.Dependencies, dep)
	}

	unit.Generated = a.relatedGenerated(op.Name, ix.Generated)
	return unit, nil
}

// Query assembles the bundle for one sql-query entity.
func (a *Assembler) Query(q lineindex.Entity, ix Indices) (*UnitCache, error) {
	sql, err := fileutil.ReadRange(a.cfg.QueryPath, q.Range.Start, q.Range.End)
	if err != nil {
		return nil, fmt.Errorf("failed to read query %s: %w", q.Name, err)
	}

	unit := &UnitCache{
		UnitID:       q.Name,
		UnitKind:     UnitQuery,
		Mode:         q.Mode,
		SourceFile:   a.cfg.Rel(a.cfg.QueryPath),
		Range:        q.Range,
		Text:         sql,
		Dependencies: make([]Dependency, 0),
		Generated:    make([]GeneratedRef, 0),
	}

	for _, table := range resolve.Tables(sql, ix.SQLSchema) {
		dep, err := a.materialize(a.cfg.SchemaPath, table)
		if err != nil {
			return nil, err
		}
		unit.Dependencies = append(unit.Dependencies, dep)
	}

	unit.Generated = a.relatedGenerated(q.Name, ix.Generated)
	return unit, nil
}

// Write emits the bundle into the cache directory. Bundles are written on
// every run; byte-identical content leaves the existing file untouched.
func (a *Assembler) Write(unit *UnitCache) error {
	data, err := fileutil.EncodeJSON(unit)
	if err != nil {
		return fmt.Errorf("failed to encode bundle %s: %w", unit.UnitID, err)
	}
	path := filepath.Join(a.cfg.CacheDir, unit.FileName())
	if err := fileutil.WriteIfChanged(path, data); err != nil {
		return fmt.Errorf("failed to write bundle %s: %w", unit.UnitID, err)
	}
	return nil
}

// materialize re-reads the dependency's live source slice.
func (a *Assembler) materialize(sourcePath string, e lineindex.Entity) (Dependency, error) {
	text, err := fileutil.ReadRange(sourcePath, e.Range.Start, e.Range.End)
	if err != nil {
		return Dependency{}, fmt.Errorf("failed to read dependency %s: %w", e.Name, err)
	}
	return Dependency{
		Name:  e.Name,
		Kind:  e.Kind,
		File:  a.cfg.Rel(sourcePath),
		Range: e.Range,
		Text:  text,
	}, nil
}

func (a *Assembler) relatedGenerated(unitName string, indices []*lineindex.FileIndex) []GeneratedRef {
	refs := make([]GeneratedRef, 0)
	for _, idx := range indices {
		for _, e := range resolve.Generated(unitName, idx) {
			refs = append(refs, GeneratedRef{
				Name:  e.Name,
				Kind:  e.Kind,
				File:  idx.FilePath,
				Range: e.Range,
				Code:  e.Code,
			})
		}
	}
	return refs
}
