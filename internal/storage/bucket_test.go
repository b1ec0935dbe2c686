package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestBucket(t *testing.T) *Bucket {
	t.Helper()
	bucket, err := NewBucket(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return bucket
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	bucket := newTestBucket(t)

	size, err := bucket.Save("invoices/1-INV-001.pdf", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != 5 {
		t.Fatalf("size %d, want 5", size)
	}

	rc, err := bucket.Open("invoices/1-INV-001.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Fatalf("content %q", data)
	}
}

func TestSaveLeavesNoTempFileBehind(t *testing.T) {
	root := t.TempDir()
	bucket, err := NewBucket(root)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := bucket.Save("invoices/x.pdf", strings.NewReader("data")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "invoices"))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestResolveRejectsEscapingKeys(t *testing.T) {
	bucket := newTestBucket(t)

	for _, key := range []string{"../outside.txt", "invoices/../../etc/passwd", "/etc/passwd", "."} {
		if _, err := bucket.Open(key); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("key %q: got %v, want ErrInvalidPath", key, err)
		}
	}
}

func TestRemoveMissingIsNotError(t *testing.T) {
	bucket := newTestBucket(t)
	if err := bucket.Remove("invoices/never-existed.pdf"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}

func TestInvoiceKeyShape(t *testing.T) {
	key := InvoiceKey("INV 001/2025", "statement.PDF")
	if !strings.HasPrefix(key, "invoices/") {
		t.Fatalf("key %q lacks invoices/ prefix", key)
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("key %q lacks lowercase extension", key)
	}
	if strings.Contains(key, " ") || strings.Contains(strings.TrimPrefix(key, "invoices/"), "/") {
		t.Fatalf("key %q not sanitized", key)
	}

	if key := InvoiceKey("INV-002", "noext"); !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("key %q should default to .pdf", key)
	}
}
