package file

import (
	"path/filepath"
	"strings"
)

// TranslatedSuffix replaces the final extension of a translated subtitle.
const TranslatedSuffix = "-translated.srt"

// ReplaceExt swaps the final extension of the file name for suffix.
// Dots in directory names are ignored; a name without an extension, or a
// dotfile such as ".srt", keeps its full name.
func ReplaceExt(path, suffix string) string {
	if path == "" {
		return path
	}

	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	if lastDot := strings.LastIndex(filename, "."); lastDot > 0 {
		filename = filename[:lastDot]
	}

	return filepath.Join(dir, filename+suffix)
}

// TranslatedPath is the sibling file a translation of path is written to.
func TranslatedPath(path string) string {
	return ReplaceExt(path, TranslatedSuffix)
}
