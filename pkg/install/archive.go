package install

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mholt/archiver/v3"
	"github.com/pkg/errors"
)

// ProgressFunc is called once per archive entry with the entry name and the
// total compressed size of the archive.
type ProgressFunc func(name string, totalBytes int64)

// Extractor unpacks release bundles. Extraction is entry-by-entry so a
// progress callback can be driven and existing files can be skipped.
type Extractor struct {
	OverwriteExisting bool
	Progress          ProgressFunc
}

// Option configures an Extractor.
type Option func(*Extractor)

// NewExtractor returns an Extractor with the given options applied.
func NewExtractor(opts ...Option) *Extractor {
	ex := &Extractor{}
	for _, opt := range opts {
		opt(ex)
	}
	return ex
}

// WithOverwrite controls whether existing destination files are replaced.
func WithOverwrite(overwrite bool) Option {
	return func(e *Extractor) {
		e.OverwriteExisting = overwrite
	}
}

// WithProgress installs a per-entry progress callback.
func WithProgress(p ProgressFunc) Option {
	return func(e *Extractor) {
		e.Progress = p
	}
}

// Extract unpacks the archive at source into the destination directory. The
// archive format is detected from the file name.
func (e *Extractor) Extract(source, destination string) error {
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("source file does not exist: %s", source)
		}
		return errors.Wrapf(err, "failed to stat source file %s", source)
	}
	if info.IsDir() {
		return errors.Errorf("source is a directory, not a file: %s", source)
	}
	totalBytes := info.Size()

	walkFn := func(f archiver.File) error {
		defer f.Close()

		if e.Progress != nil {
			e.Progress(f.Name(), totalBytes)
		}

		destPath := filepath.Join(destination, f.Name())

		if !e.OverwriteExisting {
			if _, err := os.Stat(destPath); !os.IsNotExist(err) {
				return nil
			}
		}

		if f.IsDir() {
			return os.MkdirAll(destPath, f.Mode())
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create parent directory for %s", destPath)
		}

		outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			return errors.Wrapf(err, "failed to create destination file %s", destPath)
		}
		defer outFile.Close()

		if _, err := io.Copy(outFile, f); err != nil {
			return errors.Wrapf(err, "failed to write destination file %s", destPath)
		}
		return nil
	}

	if err := archiver.Walk(source, walkFn); err != nil {
		return errors.Wrapf(err, "failed to walk archive %s", source)
	}
	return nil
}

// Compress archives the given sources into destination. The archive format
// is chosen from the destination file name.
func (e *Extractor) Compress(sources []string, destination string) error {
	for _, src := range sources {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			return errors.Errorf("source to compress does not exist: %s", src)
		}
	}
	if e.OverwriteExisting {
		if _, err := os.Stat(destination); err == nil {
			if err := os.Remove(destination); err != nil {
				return errors.Wrapf(err, "failed to remove existing archive %s", destination)
			}
		}
	}
	return archiver.Archive(sources, destination)
}
