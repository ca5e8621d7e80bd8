// Package output writes generated interchanges to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rezonia/edifact-generator/internal/model"
)

// Extension is the conventional file extension for EDIFACT interchanges.
const Extension = ".edi"

// DefaultFilename derives the output filename for an invoice number. The
// number is reduced to characters safe in filenames and HTTP headers; an
// invoice number may carry quotes or separators that its file must not.
func DefaultFilename(invoiceNumber string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return -1
		}
	}, invoiceNumber)
	return fmt.Sprintf("invoice_%s%s", safe, Extension)
}

// Writer saves interchange text to files.
type Writer struct {
	log zerolog.Logger
}

// NewWriter creates a writer logging advisories to the given logger.
func NewWriter(log zerolog.Logger) *Writer {
	return &Writer{log: log}
}

// Save writes text to name inside dir. The name must be a bare filename
// (equal to its own base name); anything containing path separators or
// parent references is rejected. A non-.edi extension only produces an
// advisory log, never a failure.
func (w *Writer) Save(dir, name, text string) error {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return model.NewGenerationError(model.CodeWriteFailed,
			"output filename must not contain path components",
			map[string]any{"filename": model.Truncate(name)})
	}
	if !strings.EqualFold(filepath.Ext(name), Extension) {
		w.log.Warn().Str("filename", name).Msgf("output filename does not use the %s extension", Extension)
	}

	path := name
	if dir != "" {
		path = filepath.Join(dir, name)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return &model.GenerationError{
			Code:    model.CodeWriteFailed,
			Message: fmt.Sprintf("failed to write %s", path),
			Details: map[string]any{"path": path},
			Cause:   err,
		}
	}
	return nil
}
