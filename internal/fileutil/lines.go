package fileutil

import (
	"os"
	"strings"
)

// ReadLines reads a file and splits it into lines without trailing newlines.
// A trailing newline at end of file does not produce an extra empty line.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits text into lines, dropping the final empty element that
// a trailing newline would otherwise produce.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// SliceRange returns lines[start..end] joined with newlines, where start and
// end are 1-based inclusive line numbers. Out-of-bounds values are clamped.
func SliceRange(lines []string, start, end int) string {
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

// ReadRange reads the file at path and returns the text covering the 1-based
// inclusive line range. The file is always read live so callers see current
// content even when the decision to re-extract was skipped.
func ReadRange(path string, start, end int) (string, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return "", err
	}
	return SliceRange(lines, start, end), nil
}
