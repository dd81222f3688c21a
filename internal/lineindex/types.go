// Package lineindex maps named entities in pipeline source artifacts to the
// line ranges that define them. Extraction is a shallow single left-to-right
// scan per format, not a parse: ranges are best-effort spans, and boundary
// imprecision is tolerated.
package lineindex

// Kind classifies an indexed entity.
type Kind string

const (
	KindHTTPOperation Kind = "http-operation"
	KindSchema        Kind = "schema"
	KindSQLTable      Kind = "sql-table"
	KindSQLType       Kind = "sql-type"
	KindSQLFunction   Kind = "sql-function"
	KindSQLQuery      Kind = "sql-query"
	KindGenFunction   Kind = "generated-function"
	KindGenStruct     Kind = "generated-struct"
	KindGenInterface  Kind = "generated-interface"
	KindGenConst      Kind = "generated-const"
	KindGenVar        Kind = "generated-var"
	KindGenType       Kind = "generated-type"
)

// LineRange is a contiguous span in one file. Start and End are 1-based and
// inclusive, Start <= End. A range never spans multiple files.
type LineRange struct {
	Start int `json:"start_line"`
	End   int `json:"end_line"`
}

// Entity is a named, range-bounded construct discovered by an extractor.
// Name is unique within its (file, kind-namespace); nothing guarantees
// global uniqueness across files.
type Entity struct {
	Name  string    `json:"name"`
	Kind  Kind      `json:"kind"`
	Range LineRange `json:"range"`

	// Method and Path are set for http-operation entities.
	Method string `json:"method,omitempty"`
	Path   string `json:"path,omitempty"`
	// Mode is the access-mode tag of a sql-query entity (one, many, exec).
	Mode string `json:"mode,omitempty"`
	// Code is a literal text snapshot, persisted only by the generated-source
	// extractor so later joins need not re-read the source file.
	Code string `json:"code,omitempty"`
}

// FileIndex is the extraction result for one source file.
type FileIndex struct {
	FilePath   string            `json:"file_path"`
	TotalLines int               `json:"total_lines"`
	Entities   map[string]Entity `json:"entities"`
}

// NewFileIndex returns an empty index for filePath covering totalLines.
func NewFileIndex(filePath string, totalLines int) *FileIndex {
	return &FileIndex{
		FilePath:   filePath,
		TotalLines: totalLines,
		Entities:   make(map[string]Entity),
	}
}

func (idx *FileIndex) add(e Entity) {
	idx.Entities[e.Name] = e
}

// Extractor scans one file's ordered lines and emits a name -> entity index.
// A file with zero recognizable entities yields an empty index, not an error.
type Extractor interface {
	Format() string
	Extract(filePath string, lines []string) *FileIndex
}
