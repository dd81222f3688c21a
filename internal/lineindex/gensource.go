package lineindex

import (
	"regexp"
	"strings"
)

var (
	reGenFunc      = regexp.MustCompile(`^func\s+(?:\([^)]+\)\s+)?(\w+)`)
	reGenStruct    = regexp.MustCompile(`^type\s+(\w+)\s+struct\b`)
	reGenInterface = regexp.MustCompile(`^type\s+(\w+)\s+interface\b`)
	reGenConstVar  = regexp.MustCompile(`^(const|var)\s+(\w+)\b`)
	reGenType      = regexp.MustCompile(`^type\s+(\w+)\s+`)
)

// GenSourceExtractor indexes entities in machine-generated Go source using a
// running brace-depth counter. An entity closes when a new opener is seen or
// when brace depth returns to zero and the next non-blank, non-comment line
// is reached; the last open entity is force-closed at the final line.
//
// This is the most failure-prone extractor. Known misfire: a declaration
// whose opening brace appears only after blank lines closes early at depth
// zero. That matches the long-standing behavior of the pipeline and is kept
// as-is rather than tightened into a real parse.
type GenSourceExtractor struct{}

func (GenSourceExtractor) Format() string { return "generated-source" }

func (GenSourceExtractor) Extract(filePath string, lines []string) *FileIndex {
	idx := NewFileIndex(filePath, len(lines))

	var (
		openName  string
		openKind  Kind
		openStart int
		depth     int
	)

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
		trimmed := strings.TrimSpace(line)
		depth += strings.Count(line, "{") - strings.Count(line, "}")

		if m := reGenFunc.FindStringSubmatch(trimmed); m != nil {
			flush(lineno - 1)
			openName, openKind, openStart = m[1], KindGenFunction, lineno
			depth = strings.Count(line, "{") - strings.Count(line, "}")
			continue
		}
		if m := reGenStruct.FindStringSubmatch(trimmed); m != nil {
			if depth == strings.Count(line, "{")-strings.Count(line, "}") {
				flush(lineno - 1)
			}
			openName, openKind, openStart = m[1], KindGenStruct, lineno
			depth = strings.Count(line, "{") - strings.Count(line, "}")
			continue
		}
		if m := reGenInterface.FindStringSubmatch(trimmed); m != nil {
			if depth == strings.Count(line, "{")-strings.Count(line, "}") {
				flush(lineno - 1)
			}
			openName, openKind, openStart = m[1], KindGenInterface, lineno
			depth = strings.Count(line, "{") - strings.Count(line, "}")
			continue
		}
		if m := reGenConstVar.FindStringSubmatch(trimmed); m != nil {
			if depth == strings.Count(line, "{")-strings.Count(line, "}") {
				flush(lineno - 1)
			}
			kind := KindGenConst
			if m[1] == "var" {
				kind = KindGenVar
			}
			openName, openKind, openStart = m[2], kind, lineno
			depth = strings.Count(line, "{") - strings.Count(line, "}")
			continue
		}
		if m := reGenType.FindStringSubmatch(trimmed); m != nil {
			if depth == 0 {
				flush(lineno - 1)
			}
			openName, openKind, openStart = m[1], KindGenType, lineno
			continue
		}

		if openName != "" && depth == 0 && trimmed != "" && !strings.HasPrefix(trimmed, "//") {
			flush(lineno)
		}
	}
	flush(len(lines))

	for name, e := range idx.Entities {
		e.Code = joinRange(lines, e.Range)
		idx.Entities[name] = e
	}

	return idx
}

func joinRange(lines []string, r LineRange) string {
	start, end := r.Start, r.End
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}
