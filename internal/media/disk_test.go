package media

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestDiskStore_SaveAndOpen(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	path, err := s.Save("call1.mp3", strings.NewReader("audio-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(path, ".mp3") {
		t.Fatalf("expected extension preserved, got %q", path)
	}

	rc, err := s.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "audio-bytes" {
		t.Fatalf("unexpected content %q", b)
	}
}

func TestDiskStore_OpenMissing(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := s.Open("call_recordings/nope.mp3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDiskStore_RejectsEscapingPaths(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := s.Open("../etc/passwd"); err == nil {
		t.Fatalf("expected error for escaping path")
	}
}
