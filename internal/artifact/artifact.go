// Package artifact packages the shutdown function's code directory into a
// deployment zip and publishes it to the configured S3 code location.
package artifact

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Fixed timestamp for zip entries. Packaging the same sources twice must
// yield byte-identical artifacts.
var zipEpoch = time.Unix(0, 0).UTC()

// Package zips the contents of assetDir into outPath.
// Entries are stored sorted with fixed timestamps so the artifact depends
// only on file contents.
func Package(assetDir, outPath string) error {
	info, err := os.Stat(assetDir)
	if err != nil {
		return fmt.Errorf("asset directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset path %s is not a directory", assetDir)
	}

	var files []string
	err = filepath.WalkDir(assetDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking asset directory: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("asset directory %s is empty", assetDir)
	}
	sort.Strings(files)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating artifact: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, path := range files {
		if err := addFile(zw, assetDir, path); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing artifact: %w", err)
	}

	return out.Close()
}

// addFile writes one file into the zip under its asset-relative path.
func addFile(zw *zip.Writer, assetDir, path string) error {
	rel, err := filepath.Rel(assetDir, path)
	if err != nil {
		return err
	}

	header := &zip.FileHeader{
		Name:     filepath.ToSlash(rel),
		Method:   zip.Deflate,
		Modified: zipEpoch,
	}

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("adding %s: %w", rel, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", rel, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

// DefaultArtifactPath derives the artifact filename from the configured
// S3 key, dropping any prefix directories.
func DefaultArtifactPath(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		key = key[idx+1:]
	}
	if key == "" {
		key = "artifact.zip"
	}
	return key
}
