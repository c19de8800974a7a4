package internal

import (
	"bytes"
	"go/format"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestSourcesAreGofmtted fails when a Go file under internal/ or cmd/ differs
// from its gofmt rendering. Fix with: gofmt -w ./internal/ ./cmd/
func TestSourcesAreGofmtted(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	root := filepath.Dir(wd)

	var unformatted []string
	for _, dir := range []string{"internal", "cmd"} {
		err := filepath.WalkDir(filepath.Join(root, dir), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" {
				return nil
			}

			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			formatted, err := format.Source(src)
			if err != nil {
				rel, _ := filepath.Rel(root, path)
				t.Errorf("%s does not parse: %v", rel, err)
				return nil
			}
			if !bytes.Equal(src, formatted) {
				rel, _ := filepath.Rel(root, path)
				unformatted = append(unformatted, rel)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("walking %s: %v", dir, err)
		}
	}

	if len(unformatted) > 0 {
		t.Errorf("files not gofmt-formatted:\n  %s\nrun: gofmt -w ./internal/ ./cmd/", strings.Join(unformatted, "\n  "))
	}
}
