package sssp

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildInlinePayload(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "clean.txt")
		writeTestFile(t, file, "0123456789")

		payload, err := buildInlinePayload(verbScanFile, file)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(payload) != "0123456789" {
			t.Errorf("payload = %q, want %q", payload, "0123456789")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := buildInlinePayload(verbScanFile, filepath.Join(t.TempDir(), "nope.txt"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !IsValidationError(err) {
			t.Errorf("expected validation error, got: %v", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := buildInlinePayload(verbScanDir, filepath.Join(t.TempDir(), "nope"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !IsValidationError(err) {
			t.Errorf("expected validation error, got: %v", err)
		}
	})

	t.Run("unsupported verb", func(t *testing.T) {
		_, err := buildInlinePayload("SCANPLANET", "/tmp")
		if err == nil {
			t.Fatal("expected error")
		}
		if !IsValidationError(err) {
			t.Errorf("expected validation error, got: %v", err)
		}
	})

	t.Run("directory skips subdirectories", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, filepath.Join(dir, "b.txt"), "BB")
		writeTestFile(t, filepath.Join(dir, "a.txt"), "AAA")
		writeTestFile(t, filepath.Join(dir, "sub", "c.txt"), "CCCC")

		payload, err := buildInlinePayload(verbScanDir, dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Sorted name order, immediate files only.
		if string(payload) != "AAABB" {
			t.Errorf("payload = %q, want %q", payload, "AAABB")
		}
	})

	t.Run("recursive walks subdirectories first", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, filepath.Join(dir, "z.txt"), "Z")
		writeTestFile(t, filepath.Join(dir, "a", "y.txt"), "Y")
		writeTestFile(t, filepath.Join(dir, "a", "b", "x.txt"), "X")

		payload, err := buildInlinePayload(verbScanDirR, dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Depth first: a/b's files, then a's files, then the root's own.
		if string(payload) != "XYZ" {
			t.Errorf("payload = %q, want %q", payload, "XYZ")
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		payload, err := buildInlinePayload(verbScanDir, t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(payload) != 0 {
			t.Errorf("payload = %q, want empty", payload)
		}
	})
}
