package plot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Elenmith/TPLProgram/internal/errors"
)

const pngExt = ".png"

// NormalizeFileName trims name and appends ".png" unless it already ends
// with that extension in any letter case.
func NormalizeFileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewPlotError("file name cannot be empty", errors.ErrEmptyFileName).WithRetryable(true)
	}
	if !strings.HasSuffix(strings.ToLower(name), pngExt) {
		name += pngExt
	}
	return name, nil
}

// DefaultDir returns the user's Desktop directory if it exists, otherwise the
// working directory.
func DefaultDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		desktop := filepath.Join(home, "Desktop")
		if info, err := os.Stat(desktop); err == nil && info.IsDir() {
			return desktop
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// ResolvePath turns a user supplied file name into the absolute path the
// plot is written to. Absolute names and names starting with ~ ignore dir.
// An empty dir selects DefaultDir.
func ResolvePath(dir, name string) (string, error) {
	name, err := NormalizeFileName(name)
	if err != nil {
		return "", err
	}

	path := expandHome(name)
	if !filepath.IsAbs(path) {
		if dir == "" {
			dir = DefaultDir()
		}
		path = filepath.Join(expandHome(dir), path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.NewPlotError("cannot resolve plot path", err).WithPath(path)
	}
	return abs, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
