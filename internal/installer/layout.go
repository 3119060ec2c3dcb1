package installer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Names inside the managed directory.
const (
	ManagedDirName   = ".spec-dock"
	CurrentDirName   = "current"
	CompletedDirName = "completed"
	TemplatesDirName = "templates"
	VersionFileName  = "spec-dock.version"
)

// Single-file installs outside the managed directory, relative to the target root.
var (
	SkillPath    = filepath.Join(".codex", "skills", "spec-driven-tdd-workflow", "SKILL.md")
	WorkflowPath = filepath.Join(".github", "workflows", "spec-dock-close.yml")
)

// ManagedDir returns <target>/.spec-dock.
func ManagedDir(target string) string {
	return filepath.Join(target, ManagedDirName)
}

// VersionFile returns the path of the version marker under target.
func VersionFile(target string) string {
	return filepath.Join(ManagedDir(target), VersionFileName)
}

// ResolveTarget expands ~, makes path absolute, resolves symlinks and checks
// that the result is an existing directory.
func ResolveTarget(path string) (string, error) {
	if path == "" {
		path = "."
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &InvalidTargetError{Path: path, Err: err}
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	if err := checkTarget(abs); err != nil {
		return "", err
	}
	return abs, nil
}

func checkTarget(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &InvalidTargetError{Path: path, Err: err}
	}
	if !info.IsDir() {
		return &InvalidTargetError{Path: path}
	}
	return nil
}

// exists reports whether path exists, treating any error other than
// not-exist as a failure.
func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
