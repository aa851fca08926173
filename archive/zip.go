package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/mholt/archives"
	ignore "github.com/sabhiram/go-gitignore"
)

var (
	// ErrNotZip is returned when the data does not start with a ZIP signature.
	// Nothing has been written to disk when this is returned.
	ErrNotZip = errors.NewPlain("data is not a ZIP archive (missing PK signature)")

	// ErrCorrupt is returned when the data looks like a ZIP archive but cannot
	// be read.
	ErrCorrupt = errors.NewPlain("ZIP archive is corrupted or not a valid ZIP file")

	// ErrExtraction is returned when an entry could not be written below the
	// destination directory.
	ErrExtraction = errors.NewPlain("failed to extract ZIP archive")
)

var zipSignatures = [...][]byte{
	{'P', 'K', 0x03, 0x04}, // local file header
	{'P', 'K', 0x05, 0x06}, // end of central directory (empty archive)
	{'P', 'K', 0x07, 0x08}, // spanned archive marker
}

// IsZip reports whether data begins with one of the ZIP signatures.
func IsZip(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range zipSignatures {
		if bytes.Equal(data[:4], sig) {
			return true
		}
	}
	return false
}

type options struct {
	exclude *ignore.GitIgnore
}

type Option func(o *options)

// WithExclude skips entries matching any of the gitignore-style patterns.
func WithExclude(patterns ...string) Option {
	return func(o *options) {
		if len(patterns) > 0 {
			o.exclude = ignore.CompileIgnoreLines(patterns...)
		}
	}
}

// writeError marks failures that happened on the filesystem side of an
// extraction, as opposed to failures reading the archive itself.
type writeError struct {
	err error
}

func (e writeError) Error() string {
	return e.err.Error()
}

func (e writeError) Unwrap() error {
	return e.err
}

// Install extracts the ZIP archive held in data into destination, creating the
// directory tree as needed. Existing files are overwritten. It returns the number
// of files written.
func Install(ctx context.Context, data []byte, destination string, opts ...Option) (int, error) {
	if !IsZip(data) {
		return 0, errors.WithStack(ErrNotZip)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	root, err := filepath.Abs(destination)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	var written int
	err = archives.Zip{}.Extract(ctx, bytes.NewReader(data), func(ctx context.Context, f archives.FileInfo) error {
		name := strings.TrimPrefix(path.Clean("/"+f.NameInArchive), "/")
		if name == "" {
			return nil
		}
		if o.exclude != nil && o.exclude.MatchesPath(name) {
			log.WithField("entry", f.NameInArchive).Debug("skipping excluded archive entry")
			return nil
		}

		target, err := safeJoin(root, f.NameInArchive)
		if err != nil {
			return writeError{err}
		}

		switch {
		case f.IsDir():
			if err := os.MkdirAll(target, 0755); err != nil {
				return writeError{err}
			}
			return nil
		case f.Mode()&fs.ModeSymlink != 0:
			log.WithField("entry", f.NameInArchive).Warn("skipping symbolic link in archive")
			return nil
		}

		if err := writeEntry(f, target); err != nil {
			return err
		}
		written++
		return nil
	})
	if err != nil {
		var we writeError
		if errors.As(err, &we) {
			return written, fmt.Errorf("%w into %s: %w", ErrExtraction, root, we.err)
		}
		return written, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	log.WithFields(log.Fields{"destination": root, "files": written}).Debug("extracted archive")
	return written, nil
}

func writeEntry(f archives.FileInfo, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return writeError{err}
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return writeError{err}
	}

	w := &recordingWriter{w: dst}
	_, err = io.Copy(w, src)
	if cerr := dst.Close(); err == nil && cerr != nil {
		return writeError{cerr}
	}
	if err != nil {
		if w.err != nil {
			return writeError{w.err}
		}
		return err
	}
	return nil
}

// safeJoin resolves name below root and rejects entries escaping it.
func safeJoin(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", errors.Errorf("archive entry %q escapes destination directory", name)
	}
	return target, nil
}

// recordingWriter remembers the last write error so copy failures can be
// attributed to the destination rather than to the archive.
type recordingWriter struct {
	w   io.Writer
	err error
}

func (r *recordingWriter) Write(p []byte) (int, error) {
	n, err := r.w.Write(p)
	if err != nil {
		r.err = err
	}
	return n, err
}
