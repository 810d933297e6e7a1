package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRun(t *testing.T) {
	tmp := t.TempDir()
	existing := filepath.Join(tmp, "existing")
	if err := os.Mkdir(existing, 0755); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(tmp, "logs", "nested")
	file := filepath.Join(tmp, "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("existing and missing", func(t *testing.T) {
		results, err := Run([]DirCheck{
			{Path: existing, FailFatal: true},
			{Path: missing, FailFatal: true},
			{Path: ""},
		})
		if err != nil {
			t.Fatalf("Run() failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if !results[0].Existed || results[0].Created {
			t.Errorf("unexpected result for existing dir: %+v", results[0])
		}
		if results[1].Existed || !results[1].Created {
			t.Errorf("unexpected result for missing dir: %+v", results[1])
		}
		if info, err := os.Stat(missing); err != nil || !info.IsDir() {
			t.Errorf("expected %s to be created", missing)
		}
	})

	t.Run("file in the way", func(t *testing.T) {
		results, err := Run([]DirCheck{{Path: file, FailFatal: true}})
		if err == nil {
			t.Fatal("expected error when path is a file")
		}
		if results[0].Err == nil {
			t.Error("expected result error")
		}
	})

	t.Run("non fatal", func(t *testing.T) {
		results, err := Run([]DirCheck{{Path: file}})
		if err != nil {
			t.Fatalf("non-fatal check returned error: %v", err)
		}
		if results[0].Err == nil {
			t.Error("expected result error to be recorded")
		}
	})
}
