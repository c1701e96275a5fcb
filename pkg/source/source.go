package source

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// SourceFile represents a source file with its content and metadata
type SourceFile struct {
	Name    string // Display name (e.g., "types.ts", "<stdin>", "<code>")
	Path    string // Full file path (empty for stdin/inline input)
	Content string // The source code content

	lines      []string // Cached split lines (lazy initialization)
	lineStarts []int    // Byte offset of each line start (lazy initialization)
}

// NewSourceFile creates a new source file
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewInlineSource creates a source file for text passed on the command line
func NewInlineSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<code>",
		Content: content,
	}
}

// NewStdinSource creates a source file for stdin input
func NewStdinSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<stdin>",
		Content: content,
	}
}

// FromFile creates a SourceFile from a file path and content
func FromFile(filePath, content string) *SourceFile {
	return NewSourceFile(filepath.Base(filePath), filePath, content)
}

// Lines returns the source split into lines (cached)
func (sf *SourceFile) Lines() []string {
	if sf.lines == nil {
		sf.lines = strings.Split(sf.Content, "\n")
	}
	return sf.lines
}

// LineText returns the 1-based line without its trailing "\r", or "" when
// the line is out of range.
func (sf *SourceFile) LineText(line int) string {
	lines := sf.Lines()
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line-1], "\r")
}

// Position converts a byte offset into a 1-based line and rune column.
func (sf *SourceFile) Position(offset int) (line, column int) {
	if sf.lineStarts == nil {
		sf.lineStarts = append(sf.lineStarts, 0)
		for i := 0; i < len(sf.Content); i++ {
			if sf.Content[i] == '\n' {
				sf.lineStarts = append(sf.lineStarts, i+1)
			}
		}
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(sf.Content) {
		offset = len(sf.Content)
	}
	idx := sort.Search(len(sf.lineStarts), func(i int) bool { return sf.lineStarts[i] > offset }) - 1
	start := sf.lineStarts[idx]
	return idx + 1, utf8.RuneCountInString(sf.Content[start:offset]) + 1
}

// Slice returns the text covered by span, clamped to the content.
func (sf *SourceFile) Slice(span Span) string {
	start, end := span.Start, span.End
	if start < 0 {
		start = 0
	}
	if end > len(sf.Content) {
		end = len(sf.Content)
	}
	if start >= end {
		return ""
	}
	return sf.Content[start:end]
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name).
// It doubles as the file id attached to every diagnostic.
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// IsFile returns true if this represents an actual file (has a path)
func (sf *SourceFile) IsFile() bool {
	return sf.Path != ""
}
