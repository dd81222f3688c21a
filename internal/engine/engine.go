// Package engine orchestrates one full cache-generation run: fingerprint
// gating, per-format extraction or index reload, and parallel unit assembly.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/crosscache-dev/crosscache/internal/assemble"
	"github.com/crosscache-dev/crosscache/internal/config"
	"github.com/crosscache-dev/crosscache/internal/fileutil"
	"github.com/crosscache-dev/crosscache/internal/fingerprint"
	"github.com/crosscache-dev/crosscache/internal/indexstore"
	"github.com/crosscache-dev/crosscache/internal/lineindex"
)

// Engine owns all per-run state. Extractors are fields so tests can swap in
// instrumented ones; the fingerprint table is the only state shared across
// assembly workers and is guarded internally.
type Engine struct {
	cfg   *config.Resolved
	table *fingerprint.Table
	store *indexstore.Store

	SpecPaths   lineindex.Extractor
	SpecSchemas lineindex.Extractor
	SQLSchema   lineindex.Extractor
	SQLQuery    lineindex.Extractor
	GenSource   lineindex.Extractor
}

// Report summarizes one run for human or machine consumption.
type Report struct {
	RunID       string   `json:"run_id"`
	BaseDir     string   `json:"base_dir"`
	CacheDir    string   `json:"cache_dir"`
	Indexed     []string `json:"indexed,omitempty"`
	Reused      []string `json:"reused,omitempty"`
	Operations  int      `json:"operations"`
	Queries     int      `json:"queries"`
	Assembled   int      `json:"assembled"`
	Failed      []string `json:"failed,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
	DurationMS  int64    `json:"duration_ms"`
}

// New prepares an engine for one run. The fingerprint table is loaded from
// the cache directory; a corrupt table is discarded with a diagnostic so the
// run degrades to full re-extraction instead of failing.
func New(cfg *config.Resolved) (*Engine, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	tablePath := filepath.Join(cfg.CacheDir, fingerprint.HashesFile)
	table, err := fingerprint.Load(tablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; re-indexing everything\n", err)
		table = fingerprint.NewTable(tablePath)
	}

	return &Engine{
		cfg:         cfg,
		table:       table,
		store:       indexstore.New(cfg.CacheDir),
		SpecPaths:   lineindex.SpecPathsExtractor{},
		SpecSchemas: lineindex.SpecSchemasExtractor{},
		SQLSchema:   lineindex.SQLSchemaExtractor{},
		SQLQuery:    lineindex.SQLQueryExtractor{},
		GenSource:   lineindex.GenSourceExtractor{},
	}, nil
}

// Run executes the full pipeline and flushes the fingerprint table exactly
// once, strictly after all extraction and assembly work.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:    uuid.NewString(),
		BaseDir:  e.cfg.BaseDir,
		CacheDir: e.cfg.CacheDir,
	}

	ix := e.buildIndices(report)

	if err := e.assembleAll(ctx, ix, report); err != nil {
		return report, err
	}

	if err := e.table.Flush(); err != nil {
		return report, err
	}

	report.DurationMS = time.Since(start).Milliseconds()
	return report, nil
}

// buildIndices hash-gates every configured source and either re-extracts or
// reloads its index. Missing optional sources contribute nil indices.
func (e *Engine) buildIndices(report *Report) assemble.Indices {
	ix := assemble.Indices{}

	if e.cfg.SpecPath != "" {
		relSpec := e.cfg.Rel(e.cfg.SpecPath)
		stem := stemOf(e.cfg.SpecPath)
		ix.SpecPaths = e.indexFile(relSpec, e.cfg.SpecPath, stem+".paths", e.SpecPaths, report)
		ix.SpecSchemas = e.indexFile(relSpec+".schemas", e.cfg.SpecPath, stem+".schemas", e.SpecSchemas, report)
	}
	if e.cfg.SchemaPath != "" {
		ix.SQLSchema = e.indexFile(e.cfg.Rel(e.cfg.SchemaPath), e.cfg.SchemaPath, filepath.Base(e.cfg.SchemaPath), e.SQLSchema, report)
	}
	if e.cfg.QueryPath != "" {
		ix.SQLQueries = e.indexFile(e.cfg.Rel(e.cfg.QueryPath), e.cfg.QueryPath, filepath.Base(e.cfg.QueryPath), e.SQLQuery, report)
	}
	for _, genPath := range e.cfg.GeneratedPaths {
		idx := e.indexFile(e.cfg.Rel(genPath), genPath, filepath.Base(genPath), e.GenSource, report)
		if idx != nil {
			ix.Generated = append(ix.Generated, idx)
		}
	}

	return ix
}

// indexFile returns the current index for one source file: reloaded from the
// store on a fingerprint hit, re-extracted (and saved) otherwise. Any
// persistence failure is confined to this artifact — the file is re-read and
// re-extracted rather than aborting the run.
func (e *Engine) indexFile(fileKey, path, indexKey string, ex lineindex.Extractor, report *Report) *lineindex.FileIndex {
	if _, err := os.Stat(path); err != nil {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("skipping %s source: %s not found", ex.Format(), e.cfg.Rel(path)))
		return nil
	}

	if !e.table.ShouldReindex(fileKey, path) {
		idx, err := e.store.Load(indexKey)
		if err != nil {
			report.Diagnostics = append(report.Diagnostics,
				fmt.Sprintf("index %s unreadable (%v); re-extracting", indexKey, err))
		} else if idx != nil {
			report.Reused = append(report.Reused, indexKey)
			return idx
		}
	}

	lines, err := fileutil.ReadLines(path)
	if err != nil {
		e.table.Forget(fileKey)
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("failed to read %s: %v", e.cfg.Rel(path), err))
		return nil
	}

	idx := ex.Extract(e.cfg.Rel(path), lines)
	if err := e.store.Save(indexKey, idx); err != nil {
		// Keep the in-memory index usable for this run, but drop the staged
		// digest so the next run re-extracts instead of trusting the stale
		// on-disk index.
		e.table.Forget(fileKey)
		report.Diagnostics = append(report.Diagnostics, err.Error())
	}
	report.Indexed = append(report.Indexed, indexKey)
	return idx
}

// assembleAll builds one bundle per unit over a bounded worker pool. A
// failing unit is recorded and skipped; it never blocks the others.
func (e *Engine) assembleAll(ctx context.Context, ix assemble.Indices, report *Report) error {
	asm := assemble.New(e.cfg)

	type job struct {
		entity lineindex.Entity
		kind   string
	}
	var jobs []job
	for _, op := range sortedEntities(ix.SpecPaths) {
		jobs = append(jobs, job{op, assemble.UnitOperation})
		report.Operations++
	}
	for _, q := range sortedEntities(ix.SQLQueries) {
		jobs = append(jobs, job{q, assemble.UnitQuery})
		report.Queries++
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var (
				unit *assemble.UnitCache
				err  error
			)
			if j.kind == assemble.UnitOperation {
				unit, err = asm.Operation(j.entity, ix)
			} else {
				unit, err = asm.Query(j.entity, ix)
			}
			if err == nil {
				err = asm.Write(unit)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, j.entity.Name)
				report.Diagnostics = append(report.Diagnostics,
					fmt.Sprintf("failed to assemble %s: %v", j.entity.Name, err))
				return nil
			}
			report.Assembled++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	sort.Strings(report.Failed)
	return nil
}

// SourceStatus describes one configured source file without mutating any
// on-disk state.
type SourceStatus struct {
	Key     string `json:"key"`
	Path    string `json:"path"`
	Format  string `json:"format"`
	Missing bool   `json:"missing,omitempty"`
	Stale   bool   `json:"stale"`
}

// Status reports, for every configured source, whether the next run would
// re-index it. Safe to call without running the pipeline.
func (e *Engine) Status() []SourceStatus {
	var out []SourceStatus

	check := func(fileKey, path string, ex lineindex.Extractor) {
		s := SourceStatus{Key: fileKey, Path: e.cfg.Rel(path), Format: ex.Format()}
		if _, err := os.Stat(path); err != nil {
			s.Missing = true
		} else {
			s.Stale = e.table.WouldReindex(fileKey, path)
		}
		out = append(out, s)
	}

	if e.cfg.SpecPath != "" {
		relSpec := e.cfg.Rel(e.cfg.SpecPath)
		check(relSpec, e.cfg.SpecPath, e.SpecPaths)
		check(relSpec+".schemas", e.cfg.SpecPath, e.SpecSchemas)
	}
	if e.cfg.SchemaPath != "" {
		check(e.cfg.Rel(e.cfg.SchemaPath), e.cfg.SchemaPath, e.SQLSchema)
	}
	if e.cfg.QueryPath != "" {
		check(e.cfg.Rel(e.cfg.QueryPath), e.cfg.QueryPath, e.SQLQuery)
	}
	for _, genPath := range e.cfg.GeneratedPaths {
		check(e.cfg.Rel(genPath), genPath, e.GenSource)
	}

	return out
}

func sortedEntities(idx *lineindex.FileIndex) []lineindex.Entity {
	if idx == nil {
		return nil
	}
	entities := make([]lineindex.Entity, 0, len(idx.Entities))
	for _, e := range idx.Entities {
		entities = append(entities, e)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })
	return entities
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
