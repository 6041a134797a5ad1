package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLocalStorage(t *testing.T) {
	t.Run("creates directory if not exists", func(t *testing.T) {
		tempDir := filepath.Join(t.TempDir(), "scratch")

		storage, err := NewLocalStorage(tempDir)
		if err != nil {
			t.Fatalf("NewLocalStorage() error = %v", err)
		}

		if storage.TempDir() != tempDir {
			t.Errorf("TempDir() = %v, want %v", storage.TempDir(), tempDir)
		}

		info, err := os.Stat(tempDir)
		if err != nil {
			t.Fatalf("directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("uses default directory when empty", func(t *testing.T) {
		storage, err := NewLocalStorage("")
		if err != nil {
			t.Fatalf("NewLocalStorage() error = %v", err)
		}

		expected := filepath.Join(os.TempDir(), "emotion-analysis")
		if storage.TempDir() != expected {
			t.Errorf("TempDir() = %v, want %v", storage.TempDir(), expected)
		}
	})
}

func TestLocalStorage_SaveTemp(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}
	ctx := context.Background()

	t.Run("saves data to temp file", func(t *testing.T) {
		path, err := storage.SaveTemp(ctx, "upload", bytes.NewReader([]byte("audio bytes")))
		if err != nil {
			t.Fatalf("SaveTemp() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read saved file: %v", err)
		}
		if string(got) != "audio bytes" {
			t.Errorf("file content = %q, want %q", got, "audio bytes")
		}
		if !strings.HasPrefix(filepath.Base(path), "upload_") {
			t.Errorf("file name %q missing name hint prefix", filepath.Base(path))
		}
	})

	t.Run("unique paths for identical names", func(t *testing.T) {
		p1, err := storage.SaveTemp(ctx, "clip", bytes.NewReader([]byte("a")))
		if err != nil {
			t.Fatalf("SaveTemp() error = %v", err)
		}
		p2, err := storage.SaveTemp(ctx, "clip", bytes.NewReader([]byte("b")))
		if err != nil {
			t.Fatalf("SaveTemp() error = %v", err)
		}
		if p1 == p2 {
			t.Errorf("expected unique paths, both were %q", p1)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := storage.SaveTemp(cancelled, "clip", bytes.NewReader(nil)); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestLocalStorage_LoadTemp(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}
	ctx := context.Background()

	path, err := storage.SaveTemp(ctx, "clip", bytes.NewReader([]byte("payload")))
	if err != nil {
		t.Fatalf("SaveTemp() error = %v", err)
	}

	rc, err := storage.LoadTemp(ctx, path)
	if err != nil {
		t.Fatalf("LoadTemp() error = %v", err)
	}
	defer func() { _ = rc.Close() }()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("content = %q, want %q", got, "payload")
	}
}

func TestLocalStorage_CleanupTemp(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}
	ctx := context.Background()

	t.Run("removes files", func(t *testing.T) {
		p1, _ := storage.SaveTemp(ctx, "a", bytes.NewReader([]byte("1")))
		p2, _ := storage.SaveTemp(ctx, "b", bytes.NewReader([]byte("2")))

		if err := storage.CleanupTemp(ctx, []string{p1, p2}); err != nil {
			t.Fatalf("CleanupTemp() error = %v", err)
		}

		for _, p := range []string{p1, p2} {
			if _, err := os.Stat(p); !os.IsNotExist(err) {
				t.Errorf("file %q still exists", p)
			}
		}
	})

	t.Run("missing files are not an error", func(t *testing.T) {
		missing := filepath.Join(storage.TempDir(), "never-existed")
		if err := storage.CleanupTemp(ctx, []string{missing}); err != nil {
			t.Errorf("CleanupTemp() error = %v", err)
		}
	})
}
