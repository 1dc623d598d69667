package upload

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"
	"time"
)

// PhotoStore persists profile photos and returns the relative path recorded
// on the user row.
type PhotoStore interface {
	Save(ctx context.Context, name string, src io.Reader) (string, error)
	Remove(ctx context.Context, photoPath string) error
}

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// Extension returns the lower-cased extension of filename and whether it is
// an accepted image format.
func Extension(filename string) (string, bool) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return "", false
	}
	ext := strings.ToLower(filename[idx+1:])
	return ext, allowedExtensions[ext]
}

// PhotoName builds "<username>_<YYYYMMDDHHMMSS>.<ext>" and sanitizes it.
func PhotoName(username string, at time.Time, ext string) string {
	return SecureFilename(username + "_" + at.Format("20060102150405") + "." + ext)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename turns a user supplied name into one safe to place inside a
// directory: separators become underscores, anything outside
// [A-Za-z0-9_.-] is dropped and leading dots or underscores are trimmed.
func SecureFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// joinRelative joins dir and name using forward slashes.
func joinRelative(dir, name string) string {
	return path.Join(strings.ReplaceAll(dir, "\\", "/"), name)
}
