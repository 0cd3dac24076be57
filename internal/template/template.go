// Package template creates notes from template files with variable
// substitution.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Load reads a template file.
func Load(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to load template from %q: %w", path, err)
	}
	return string(content), nil
}

// Render substitutes template variables with values for now:
//
//	{{date}}  current date, YYYY-MM-DD
//	{{week}}  current ISO week number
//
// Unrecognized placeholders are left unchanged.
func Render(tmpl string, now time.Time) string {
	_, week := now.ISOWeek()
	out := strings.ReplaceAll(tmpl, "{{date}}", now.Format("2006-01-02"))
	out = strings.ReplaceAll(out, "{{week}}", strconv.Itoa(week))
	return out
}

// CreateNote writes a new note at outputPath from the template, creating
// parent directories as needed. Refuses to overwrite an existing file.
func CreateNote(templatePath, outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("file %q already exists", outputPath)
	}

	tmpl, err := Load(templatePath)
	if err != nil {
		return err
	}
	content := Render(tmpl, time.Now())

	if parent := filepath.Dir(outputPath); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", parent, err)
		}
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to create file %q: %w", outputPath, err)
	}
	return nil
}
