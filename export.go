package quicklang

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DefaultExportFilename is the file name offered for downloads.
const DefaultExportFilename = "translated-text.txt"

// MaxImportSize is the largest text file accepted by ImportText.
const MaxImportSize = 1 << 20

// ExportContent picks what to export: the output if there is one, the input
// otherwise. Blank content yields ErrNothingToExport.
func ExportContent(output, input string) (string, error) {
	if strings.TrimSpace(output) != "" {
		return output, nil
	}
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	return "", ErrNothingToExport
}

// ExportText writes the session's output, or its input when there is no
// output yet, to w.
func (s *Session) ExportText(w io.Writer) error {
	content, err := ExportContent(s.Output(), s.form.Snapshot().InputText)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// ExportToFile writes the session's export content to path. An empty path
// or a directory means DefaultExportFilename.
// The path is provided by the caller and is intentionally user-controlled.
func (s *Session) ExportToFile(path string) (string, error) {
	if path == "" {
		path = DefaultExportFilename
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultExportFilename)
	}

	content, err := ExportContent(s.Output(), s.form.Snapshot().InputText)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { // #nosec G306
		return "", fmt.Errorf("creating file: %w", err)
	}
	return path, nil
}

// ImportText reads plain UTF-8 text from r.
func ImportText(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImportSize+1))
	if err != nil {
		return "", fmt.Errorf("reading text: %w", err)
	}
	if len(data) > MaxImportSize {
		return "", &ValidationError{Field: "file", Message: fmt.Sprintf("larger than %d bytes", MaxImportSize)}
	}
	if !utf8.Valid(data) {
		return "", &ValidationError{Field: "file", Message: "not valid UTF-8 text"}
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// ImportFromFile loads a .txt file into the session's input text.
// The path is provided by the caller and is intentionally user-controlled.
func (s *Session) ImportFromFile(path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".txt") {
		return "", &ValidationError{Field: "file", Message: "only .txt files are supported"}
	}

	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	text, err := ImportText(f)
	if err != nil {
		return "", err
	}
	s.form.SetInputText(text)
	return text, nil
}
