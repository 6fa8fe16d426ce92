package quicklang

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportContent(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		want    string
		wantErr error
	}{
		{"output preferred", "Hola", "Hello", "Hola", nil},
		{"input fallback", "", "Hello", "Hello", nil},
		{"blank output falls back", "  \n", "Hello", "Hello", nil},
		{"nothing", "", "   ", "", ErrNothingToExport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExportContent(tt.output, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExportContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSession_ExportText(t *testing.T) {
	s := newTestSession(t, &fakeEngine{})

	var buf bytes.Buffer
	if err := s.ExportText(&buf); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("empty session should have nothing to export, got %v", err)
	}

	s.Form().SetInputText("Hello")
	buf.Reset()
	if err := s.ExportText(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Hello" {
		t.Errorf("export before translating = %q, want the input", buf.String())
	}

	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := s.ExportText(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Hello (spanish)" {
		t.Errorf("export after translating = %q, want the output", buf.String())
	}
}

func TestSession_ExportToFile(t *testing.T) {
	s := newTestSession(t, &fakeEngine{})
	s.Form().SetInputText("Hello")
	dir := t.TempDir()

	path, err := s.ExportToFile(dir)
	if err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}
	if filepath.Base(path) != DefaultExportFilename {
		t.Errorf("directory export should use %s, got %s", DefaultExportFilename, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Hello" {
		t.Errorf("file contains %q", data)
	}

	custom := filepath.Join(dir, "out.txt")
	if path, err = s.ExportToFile(custom); err != nil || path != custom {
		t.Errorf("ExportToFile(%s) = %s, %v", custom, path, err)
	}
}

func TestImportText(t *testing.T) {
	got, err := ImportText(strings.NewReader("\ufeffHola\nmundo"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hola\nmundo" {
		t.Errorf("ImportText() = %q, BOM should be stripped", got)
	}

	if _, err := ImportText(bytes.NewReader([]byte{0xff, 0xfe, 0x00})); !IsValidation(err) {
		t.Errorf("invalid UTF-8 should be rejected, got %v", err)
	}

	big := strings.NewReader(strings.Repeat("a", MaxImportSize+1))
	if _, err := ImportText(big); !IsValidation(err) {
		t.Errorf("oversized input should be rejected, got %v", err)
	}
}

func TestSession_ImportFromFile(t *testing.T) {
	s := newTestSession(t, &fakeEngine{})
	dir := t.TempDir()

	txt := filepath.Join(dir, "note.TXT")
	if err := os.WriteFile(txt, []byte("Bonjour"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := s.ImportFromFile(txt)
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if got != "Bonjour" || s.Form().Snapshot().InputText != "Bonjour" {
		t.Errorf("imported %q, form has %q", got, s.Form().Snapshot().InputText)
	}

	pdf := filepath.Join(dir, "note.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ImportFromFile(pdf); !IsValidation(err) {
		t.Errorf("non-.txt files should be rejected, got %v", err)
	}

	if _, err := s.ImportFromFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("missing file should fail")
	}
}
