package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestRender verifies variable substitution.
func TestRender(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	_, week := now.ISOWeek()

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"date", "# {{date}}", "# 2024-03-15"},
		{"week", "week {{week}}", fmt.Sprintf("week %d", week)},
		{"both repeated", "{{date}} {{date}} {{week}}", fmt.Sprintf("2024-03-15 2024-03-15 %d", week)},
		{"unknown placeholder", "{{title}} stays", "{{title}} stays"},
		{"no placeholders", "plain text", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.tmpl, now); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

// TestCreateNote verifies template-backed note creation.
func TestCreateNote(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "daily.md")
	if err := os.WriteFile(tmplPath, []byte("# {{date}}\n"), 0o644); err != nil {
		t.Fatalf("Failed to write template: %v", err)
	}

	out := filepath.Join(dir, "notes", "today.md")
	if err := CreateNote(tmplPath, out); err != nil {
		t.Fatalf("CreateNote() failed: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read created note: %v", err)
	}
	want := "# " + time.Now().Format("2006-01-02") + "\n"
	if string(content) != want {
		t.Errorf("content = %q, want %q", content, want)
	}
}

// TestCreateNote_RefusesOverwrite verifies existing files are preserved.
func TestCreateNote_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "daily.md")
	if err := os.WriteFile(tmplPath, []byte("fresh"), 0o644); err != nil {
		t.Fatalf("Failed to write template: %v", err)
	}
	out := filepath.Join(dir, "note.md")
	if err := os.WriteFile(out, []byte("precious"), 0o644); err != nil {
		t.Fatalf("Failed to write existing note: %v", err)
	}

	err := CreateNote(tmplPath, out)
	if err == nil {
		t.Fatal("CreateNote() should fail when the output exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %v, want already-exists", err)
	}

	content, _ := os.ReadFile(out)
	if string(content) != "precious" {
		t.Errorf("existing note was overwritten: %q", content)
	}
}

// TestCreateNote_MissingTemplate verifies the error path.
func TestCreateNote_MissingTemplate(t *testing.T) {
	dir := t.TempDir()
	err := CreateNote(filepath.Join(dir, "missing.md"), filepath.Join(dir, "out.md"))
	if err == nil {
		t.Fatal("CreateNote() should fail for a missing template")
	}
}
