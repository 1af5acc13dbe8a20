package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	Dir      = "supabase"
	FileName = "schema.sql"
)

var ErrNotFound = errors.New("schema file not found")

// RelPath is the schema location relative to the install root, as shown to operators.
func RelPath() string {
	return filepath.ToSlash(filepath.Join(Dir, FileName))
}

func Path(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// InstallRoot returns the directory the program is installed under. The binary
// is expected in <root>/bin, so the root is the parent of the executable's
// directory. Binaries started by `go run` live in the build cache; for those the
// working directory is the root.
func InstallRoot() (string, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}

	executable, err = filepath.EvalSymlinks(executable)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}

	if isBuildCache(executable) {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}

		return wd, nil
	}

	return filepath.Dir(filepath.Dir(executable)), nil
}

func isBuildCache(executable string) bool {
	tmp, err := filepath.EvalSymlinks(os.TempDir())
	if err != nil {
		tmp = os.TempDir()
	}

	rel, err := filepath.Rel(tmp, executable)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}

	return strings.HasPrefix(filepath.ToSlash(rel), "go-build")
}

// Read returns the file content exactly as stored. ErrNotFound is returned when
// nothing exists at path.
func Read(path string) (string, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read schema file: %w", err)
	}

	return string(content), nil
}

// Exists reports whether a schema file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
