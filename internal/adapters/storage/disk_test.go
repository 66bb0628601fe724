package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, "/media/video/upload")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	url, err := s.Save(context.Background(), "abc.webm", bytes.NewReader([]byte("payload")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/media/video/upload/abc.webm" {
		t.Errorf("url: got %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "abc.webm"))
	if err != nil {
		t.Fatalf("blob missing: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content: got %q", data)
	}

	if err := s.Remove(context.Background(), "abc.webm"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "abc.webm")); !os.IsNotExist(err) {
		t.Error("blob still on disk")
	}
}

func TestRemoveMissingBlobIsNoOp(t *testing.T) {
	s, err := NewDiskStore(t.TempDir(), "/media/video/upload")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	if err := s.Remove(context.Background(), "never-existed.webm"); err != nil {
		t.Errorf("Remove of missing blob: %v", err)
	}
}

func TestSaveStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, "/media/video/upload")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	// Only the base name may reach the media dir.
	url, err := s.Save(context.Background(), "../../etc/evil.webm", bytes.NewReader([]byte("x")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/media/video/upload/evil.webm" {
		t.Errorf("url: got %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "evil.webm")); err != nil {
		t.Errorf("sanitized blob missing: %v", err)
	}
}
