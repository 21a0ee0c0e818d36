package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReadDir(t *testing.T) {
	tmpDir := t.TempDir()

	dirs := []string{"dir1", "dir2", ".hidden_dir"}
	files := []string{"track 10.mp3", "track 2.mp3", ".hidden_file"}

	for _, d := range dirs {
		if err := os.Mkdir(filepath.Join(tmpDir, d), 0755); err != nil {
			t.Fatalf("failed to create dir %s: %v", d, err)
		}
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, f), []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", f, err)
		}
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "dir1", "nested.mp3"), []byte("nested"), 0644); err != nil {
		t.Fatalf("failed to create nested file: %v", err)
	}

	entries, err := ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir returned error: %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	expected := []string{"dir1", "dir2", "track 2.mp3", "track 10.mp3"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("entry %d: expected %q, got %q", i, expected[i], names[i])
		}
	}
	if !entries[0].IsDir || entries[2].IsDir {
		t.Errorf("directory flags wrong: %+v", entries)
	}
}

func TestReadDir_NonExistent(t *testing.T) {
	if _, err := ReadDir("/nonexistent/path/that/does/not/exist"); err == nil {
		t.Error("expected error for nonexistent path")
	}
}

func TestReadDir_SymlinkHandling(t *testing.T) {
	tmpDir := t.TempDir()

	realDir := filepath.Join(tmpDir, "realdir")
	if err := os.Mkdir(realDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(realDir, filepath.Join(tmpDir, "linkdir")); err != nil {
		t.Skipf("cannot create symlinks: %v", err)
	}

	entries, err := ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir returned error: %v", err)
	}
	for _, e := range entries {
		if e.Name == "linkdir" {
			if !e.IsDir {
				t.Error("symlink to directory should appear as directory")
			}
			return
		}
	}
	t.Error("missing symlink to directory")
}

func TestEntry_Fields(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "song.flac")
	content := []byte("hello world")
	if err := os.WriteFile(testFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Path != testFile {
		t.Errorf("expected Path=%q, got %q", testFile, e.Path)
	}
	if e.Size != int64(len(content)) {
		t.Errorf("expected Size=%d, got %d", len(content), e.Size)
	}
	if time.Since(e.ModTime) > time.Minute {
		t.Errorf("ModTime seems too old: %v", e.ModTime)
	}
}

func TestIsAudio(t *testing.T) {
	exts := []string{"mp3", ".FLAC", "ogg"}
	testCases := []struct {
		name     string
		expected bool
	}{
		{"song.mp3", true},
		{"song.MP3", true},
		{"song.flac", true},
		{"cover.jpg", false},
		{"README", false},
	}

	for _, tc := range testCases {
		if got := IsAudio(tc.name, exts); got != tc.expected {
			t.Errorf("IsAudio(%q): expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}

func TestAudioFiles(t *testing.T) {
	tmpDir := t.TempDir()
	for _, f := range []string{"b.mp3", "a.flac", "cover.jpg"} {
		if err := os.WriteFile(filepath.Join(tmpDir, f), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "disc.mp3"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := AudioFiles(tmpDir, []string{"mp3", "flac"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[0].Name != "a.flac" || files[1].Name != "b.mp3" {
		t.Errorf("unexpected audio files: %+v", files)
	}
}
