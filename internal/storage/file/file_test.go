package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger", "ledger.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, ok, err := s.Get(ctx, "transactions"); ok || err != nil {
		t.Fatalf("missing file should read as empty, ok=%v err=%v", ok, err)
	}
	if err := s.Put(ctx, "transactions", "[]"); err != nil {
		t.Fatalf("put transactions: %v", err)
	}
	if err := s.Put(ctx, "darkMode", "true"); err != nil {
		t.Fatalf("put darkMode: %v", err)
	}

	reopened, _ := New(path)
	for key, want := range map[string]string{"transactions": "[]", "darkMode": "true"} {
		v, ok, err := reopened.Get(ctx, key)
		if err != nil || !ok || v != want {
			t.Fatalf("%s: v=%q ok=%v err=%v", key, v, ok, err)
		}
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file should be renamed away, stat err=%v", err)
	}
}

func TestFileStoreCorruptDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s, _ := New(path)

	if _, _, err := s.Get(ctx, "darkMode"); err == nil {
		t.Fatal("expected decode error for corrupt document")
	}
	if err := s.Put(ctx, "darkMode", "false"); err != nil {
		t.Fatalf("put should replace a corrupt document: %v", err)
	}
	v, ok, err := s.Get(ctx, "darkMode")
	if err != nil || !ok || v != "false" {
		t.Fatalf("unexpected value: v=%q ok=%v err=%v", v, ok, err)
	}
}
