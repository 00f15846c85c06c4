package ioutils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest file or folder name, in bytes, that
// SanitizeFileName produces. Most filesystems cap a single component at 255.
const MaxNameLength = 255

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]`)
	multiSpace   = regexp.MustCompile(`\s+`)
	trailingJunk = regexp.MustCompile(`[. ]+$`)

	// Device names Windows refuses regardless of extension.
	reservedNames = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[0-9]|lpt[0-9])(\..*)?$`)
)

// FileError is returned when a filesystem operation fails.
//
// Op names the step that failed ("create", "write", "rename", ...) and
// Path the file it was working on. Err is usually an *os.PathError.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) → underscore
//   - Multiple whitespace → single space
//   - Leading spaces, trailing dots and spaces → removed
//   - "." and ".." → empty (never usable as a name)
//   - Windows reserved device names (CON, NUL, COM1, ...) → suffixed with underscore
//   - Names longer than MaxNameLength bytes are cut, keeping the extension
//
// An empty result means nothing usable was left.
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")  // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")        // Returns "Track"
//	SanitizeFileName("..")              // Returns ""
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.TrimLeft(name, " ")
	name = trailingJunk.ReplaceAllString(name, "")

	if name == "" || name == "." || name == ".." {
		return ""
	}

	if m := reservedNames.FindStringSubmatch(name); m != nil {
		name = m[1] + "_" + m[2]
	}

	return truncateName(name, MaxNameLength)
}

// truncateName cuts name to at most limit bytes without splitting a rune.
// A short extension (up to 16 bytes) is preserved.
func truncateName(name string, limit int) string {
	if len(name) <= limit {
		return name
	}

	ext := filepath.Ext(name)
	if len(ext) > 16 || len(ext) >= limit {
		ext = ""
	}
	base := strings.TrimSuffix(name, ext)

	cut := limit - len(ext)
	for cut > 0 && !utf8.RuneStart(base[cut]) {
		cut--
	}

	return strings.TrimRight(base[:cut], ". ") + ext
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755. If the directory already exists,
// no error is returned.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return &FileError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}

// WriteFile writes data to path in a single write, creating or truncating it.
//
// The file handle is always closed, including when the write fails. A
// failing close is reported too, since on some filesystems it is the first
// place a full disk shows up.
func WriteFile(ctx context.Context, path string, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return &FileError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &FileError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if _, err := f.Write(data); err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		return &FileError{Op: "sync", Path: path, Err: err}
	}

	return nil
}

// WriteFileAtomic replaces path with data so that readers see either the
// old content or the new content, never a partial file.
//
// The data goes to a temporary file in the same directory, which is synced
// and then renamed over path. The temporary file is removed on failure.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &FileError{Op: "create temp", Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return &FileError{Op: "write", Path: tmpPath, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &FileError{Op: "sync", Path: tmpPath, Err: err}
	}
	if err = tmp.Chmod(perm); err != nil {
		return &FileError{Op: "chmod", Path: tmpPath, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &FileError{Op: "close", Path: tmpPath, Err: err}
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return &FileError{Op: "rename", Path: path, Err: err}
	}

	return nil
}
