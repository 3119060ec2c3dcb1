package installer

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
	execPerm fs.FileMode = 0o755
)

// replaceTree makes dest an exact copy of root in fsys.
//
// The copy is staged next to dest and swapped in with renames, so dest is
// never observed missing: the old tree is moved aside, the staged tree moved
// into place, then the old tree removed. If the swap fails the old tree is
// restored.
func replaceTree(fsys fs.FS, root, dest string) error {
	parent := filepath.Dir(dest)
	base := filepath.Base(dest)

	stage, err := os.MkdirTemp(parent, "."+base+".stage-*")
	if err != nil {
		return fmt.Errorf("creating staging directory for %s: %w", base, err)
	}
	staged := false
	defer func() {
		if !staged {
			os.RemoveAll(stage)
		}
	}()

	if err := os.Chmod(stage, dirPerm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", stage, err)
	}
	if err := copyTree(fsys, root, stage); err != nil {
		return fmt.Errorf("copying %s: %w", root, err)
	}

	present, err := exists(dest)
	if err != nil {
		return fmt.Errorf("checking %s: %w", dest, err)
	}

	var backup string
	if present {
		backup = stage + ".old"
		if err := os.Rename(dest, backup); err != nil {
			return fmt.Errorf("moving aside %s: %w", dest, err)
		}
	}

	if err := os.Rename(stage, dest); err != nil {
		if backup != "" {
			if rerr := os.Rename(backup, dest); rerr != nil {
				return fmt.Errorf("installing %s: %w (previous copy left at %s)", dest, err, backup)
			}
		}
		return fmt.Errorf("installing %s: %w", dest, err)
	}
	staged = true

	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			return fmt.Errorf("removing previous %s: %w", base, err)
		}
	}
	return nil
}

// copyTree copies the subtree root of fsys into dest, creating directories as
// needed. Existing files in dest are overwritten.
func copyTree(fsys fs.FS, root, dest string) error {
	return fs.WalkDir(fsys, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dest, filepath.FromSlash(relPath(root, name)))
		if d.IsDir() {
			return os.MkdirAll(target, dirPerm)
		}
		return copyFile(fsys, name, target)
	})
}

// copyFile copies a single file from fsys to dest. The executable bit is kept
// for sources that carry one and for shell scripts, since embedded files
// report read-only modes.
func copyFile(fsys fs.FS, name, dest string) error {
	src, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	perm := permFor(name, info.Mode())

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	// OpenFile leaves the mode of an existing file alone.
	return os.Chmod(dest, perm)
}

func permFor(name string, mode fs.FileMode) fs.FileMode {
	if mode.Perm()&0o111 != 0 || strings.HasSuffix(name, ".sh") {
		return execPerm
	}
	return filePerm
}

// relPath returns name relative to root for slash-separated fs paths.
func relPath(root, name string) string {
	switch {
	case root == ".":
		return name
	case name == root:
		return "."
	default:
		return strings.TrimPrefix(name, root+"/")
	}
}
