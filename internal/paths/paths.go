// Package paths normalizes file paths for display and comparison, so that
// query output and the index store see filenames in a stable,
// platform-independent form regardless of how they were passed on the
// command line.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize converts an absolute path to a root-relative canonical path:
// symlinks resolved, made relative to root, backslashes converted to
// forward slashes.
func Canonicalize(absolutePath string, root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = root
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(relativePath), nil
}

// IsWithin reports whether path resolves to somewhere under root.
func IsWithin(path string, root string) bool {
	canonical, err := Canonicalize(path, root)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(canonical, "..")
}

// Normalize converts backslashes to forward slashes, for paths that are
// already relative but may have come from a Windows-style -F list file.
func Normalize(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// Join joins root with a forward-slash canonical path, using the host's
// native separator.
func Join(root string, canonicalPath string) string {
	normalizedPath := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalizedPath, "/")
	return filepath.Join(append([]string{root}, parts...)...)
}

// DisplayPath returns the path to show in query output and
// log lines: the path as given on the command line if it is already
// relative, otherwise made relative to the working directory when
// possible, falling back to the absolute path.
func DisplayPath(path string) string {
	if !filepath.IsAbs(path) {
		return Normalize(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return Normalize(path)
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return Normalize(path)
	}
	return Normalize(rel)
}
