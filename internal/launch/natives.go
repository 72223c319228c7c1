// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ducklauncher/duck/internal/cache"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mholt/archiver"
)

type (
	// Extractor unpacks a native jar into a directory, skipping entries that
	// match any exclude pattern.
	Extractor interface {
		Extract(archive, dest string, exclude []string) error
	}

	// ZipExtractor extracts jars with archiver's zip walker. Exclude entries are
	// either path prefixes ("META-INF/") or doublestar patterns.
	ZipExtractor struct{}
)

// Extract implements Extractor. Existing files are overwritten. Entries that
// would land outside dest fail with a *cache.UnsafePathError.
func (ZipExtractor) Extract(archive, dest string, exclude []string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create natives directory: %w", err)
	}
	z := archiver.NewZip()
	z.OverwriteExisting = true
	z.MkdirAll = true

	return z.Walk(archive, func(f archiver.File) error {
		name := entryName(f)
		if name == "" || excluded(name, exclude) {
			return nil
		}
		target, err := cache.SafeJoin(dest, name)
		if err != nil {
			return err
		}
		if f.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return writeEntry(target, f)
	})
}

func entryName(f archiver.File) string {
	switch h := f.Header.(type) {
	case zip.FileHeader:
		return h.Name
	case *zip.FileHeader:
		return h.Name
	default:
		return f.Name()
	}
}

func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.HasPrefix(name, p) {
			return true
		}
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func writeEntry(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
