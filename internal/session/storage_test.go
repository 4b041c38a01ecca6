package session

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	fs := NewFileStorage(path)
	ctx := context.Background()

	if got, err := fs.Load(ctx); err != nil || got != "" {
		t.Fatalf("empty Load = %q, %v", got, err)
	}
	if err := fs.Save(ctx, "abc.def"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got, err := fs.Load(ctx); err != nil || got != "abc.def" {
		t.Fatalf("Load = %q, %v", got, err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("token file mode = %o, want 600", perm)
		}
	}

	if err := fs.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := fs.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if got, _ := fs.Load(ctx); got != "" {
		t.Fatalf("Load after Clear = %q", got)
	}
}
