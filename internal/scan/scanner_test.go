package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Beatles - Let It Be.chords"), "[C]When I find")
	touch(t, filepath.Join(root, "folk", "Song.CHO"), "x")
	touch(t, filepath.Join(root, "folk", "notes.md"), "not a song")
	touch(t, filepath.Join(root, ".trash", "Old.txt"), "hidden dir")
	touch(t, filepath.Join(root, ".hidden.txt"), "hidden file")

	files, err := ScanRoot(root)
	if err != nil {
		t.Fatalf("ScanRoot: %v", err)
	}

	want := []string{
		filepath.Join(root, "Beatles - Let It Be.chords"),
		filepath.Join(root, "folk", "Song.CHO"),
	}
	if len(files) != len(want) {
		t.Fatalf("got %d files: %+v", len(files), files)
	}
	for i, f := range files {
		if f.Path != want[i] {
			t.Errorf("files[%d] = %q, expected %q", i, f.Path, want[i])
		}
		if f.Size == 0 || f.Mtime == 0 {
			t.Errorf("files[%d] missing stat info: %+v", i, f)
		}
	}
}

func TestScanRoot_Missing(t *testing.T) {
	files, err := ScanRoot(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("ScanRoot on missing root: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %d", len(files))
	}

	files, err = ScanRoot("")
	if err != nil || files != nil {
		t.Errorf("ScanRoot(\"\") = %v, %v", files, err)
	}
}
