package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultWriter writes lines back joined with the file's line ending.
type DefaultWriter struct{}

func NewWriter() Writer {
	return &DefaultWriter{}
}

// Write replaces path atomically through a temporary file in the same
// directory. Output is always UTF-8.
func (w *DefaultWriter) Write(path string, file *File) error {
	if file == nil {
		return fmt.Errorf("subtitle data is empty")
	}

	ending := file.LineEnding
	if ending == "" {
		ending = "\n"
	}
	content := strings.Join(file.Lines, ending)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".srt-translator-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set output file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}
