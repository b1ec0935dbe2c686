// Package storage implements the client-uploads bucket on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidPath is returned for keys that escape the bucket root.
var ErrInvalidPath = errors.New("invalid storage path")

// Bucket stores uploaded files under a root directory. Keys are
// relative slash-separated paths, e.g. invoices/<timestamp>-<number>.pdf.
type Bucket struct {
	root string
}

// NewBucket creates the root directory if needed.
func NewBucket(root string) (*Bucket, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create bucket dir %s: %w", root, err)
	}
	return &Bucket{root: root}, nil
}

// InvoiceKey builds the storage key for an invoice file:
// invoices/<timestamp>-<invoice_number>.<ext>.
func InvoiceKey(invoiceNumber, originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("invoices/%d-%s%s", time.Now().Unix(), sanitize(invoiceNumber), ext)
}

// Save writes the reader's content to key. Writes go to a temp file
// first and are renamed into place so a failed upload never leaves a
// partial object behind.
func (b *Bucket) Save(key string, r io.Reader) (int64, error) {
	fullPath, err := b.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return 0, fmt.Errorf("create object dir: %w", err)
	}

	tmpPath := fullPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("create temp object: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("write object: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("sync object: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("finalize object: %w", err)
	}
	return size, nil
}

// Open returns a reader for the object at key.
func (b *Bucket) Open(key string) (io.ReadCloser, error) {
	fullPath, err := b.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// Remove deletes the object at key. Missing objects are not an error.
func (b *Bucket) Remove(key string) error {
	fullPath, err := b.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (b *Bucket) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrInvalidPath
	}
	return filepath.Join(b.root, cleaned), nil
}

func sanitize(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
