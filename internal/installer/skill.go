package installer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spec-dock/spec-dock/internal/assets"
)

// InstallSkill copies the bundled skill file to <target>/.codex/skills/....
//
// An existing skill is left alone unless force is set; the returned Result
// then has ActionSkipped and the error is nil.
func (i *Installer) InstallSkill(target string, force bool) (Result, error) {
	if err := checkTarget(target); err != nil {
		return Result{}, err
	}
	res, err := i.installFile("skill", assets.SkillFile, filepath.Join(target, SkillPath), force)
	if err != nil {
		return res, err
	}
	if res.Action == ActionSkipped {
		i.logger.Debug("skill exists, skipped", "path", res.Path)
	}
	return res, nil
}

// installFile copies one bundle file to dest, creating parent directories.
// When dest exists and force is false nothing is written.
func (i *Installer) installFile(name, src, dest string, force bool) (Result, error) {
	res := Result{Name: name, Path: dest, Action: ActionInstalled}

	info, err := fs.Stat(i.bundle, src)
	if err != nil || !info.Mode().IsRegular() {
		return res, &MissingAssetError{Path: src}
	}

	present, err := exists(dest)
	if err != nil {
		return res, fmt.Errorf("checking %s: %w", dest, err)
	}
	if present {
		if !force {
			res.Action = ActionSkipped
			return res, nil
		}
		res.Action = ActionReplaced
	}

	if err := os.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return res, fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	if err := copyFile(i.bundle, src, dest); err != nil {
		return res, fmt.Errorf("installing %s: %w", name, err)
	}
	return res, nil
}
