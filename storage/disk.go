// Package storage stores barcode and photo artifacts on a local directory or an
// S3-compatible bucket. Paths are slash separated and relative to the disk root,
// e.g. "barcodes/barcode 5701234567890.png".
package storage

import (
	"context"
	"fmt"
	"lager_server/structs"
	"net/url"
	"strings"
)

// Disk is the filesystem driver interface. Every driver must implement this.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(ctx context.Context, path string, content []byte) error

	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns the public URL for path.
	URL(path string) string

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// Files lists non-recursive file paths directly inside directory.
	Files(ctx context.Context, directory string) ([]string, error)

	// MakeDirectory creates directory (and any parents).
	MakeDirectory(ctx context.Context, path string) error
}

// New returns the disk selected by STORAGE_DISK.
func New(ctx context.Context, cfg *structs.StorageConfig) (Disk, error) {
	switch cfg.Disk {
	case "", "local":
		return NewLocalDisk(cfg.LocalRoot, cfg.URL)
	case "s3":
		return NewS3Disk(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", cfg.Disk)
	}
}

// escapePath percent-encodes each segment, so "barcode 1.png" becomes
// "barcode%201.png".
func escapePath(p string) string {
	return (&url.URL{Path: strings.TrimLeft(p, "/")}).EscapedPath()
}
