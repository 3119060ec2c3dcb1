// Package installer synchronizes the spec-dock asset bundle into a project.
//
// The managed directory (.spec-dock) holds three subtrees mirrored from the
// bundle (docs, templates, scripts), the user's working copy (current), an
// archive directory (completed) and a version marker. Mirrored subtrees are
// always fully replaced; current is only reseeded when it is missing or a
// reset is requested; completed is created once and never touched again.
package installer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spec-dock/spec-dock/internal/assets"
	"github.com/spec-dock/spec-dock/internal/version"
)

// Mode selects between first-time scaffolding and a managed refresh.
type Mode string

const (
	ModeInit   Mode = "init"
	ModeUpdate Mode = "update"
)

// Actions reported for each installed path.
const (
	ActionInstalled = "installed"
	ActionReplaced  = "replaced"
	ActionPreserved = "preserved"
	ActionReset     = "reset"
	ActionCreated   = "created"
	ActionSkipped   = "skipped"
	ActionWritten   = "written"
)

// Result describes what happened to one installed path.
type Result struct {
	Name   string // Short name, e.g. "docs", "current", "skill"
	Path   string // Absolute destination path
	Action string // One of the Action* constants
}

// Changed reports whether the run wrote to the destination.
func (r Result) Changed() bool {
	return r.Action != ActionPreserved && r.Action != ActionSkipped
}

// Report collects the results of one install-or-update run.
type Report struct {
	Target  string
	Mode    Mode
	Version string
	Results []Result
}

// Skipped returns the results whose install was skipped because the
// destination already existed.
func (r *Report) Skipped() []Result {
	var skipped []Result
	for _, res := range r.Results {
		if res.Action == ActionSkipped {
			skipped = append(skipped, res)
		}
	}
	return skipped
}

// Options configures Install.
type Options struct {
	// Target is the project root. It must be an existing directory.
	Target string
	// Mode is ModeInit or ModeUpdate.
	Mode Mode
	// Force allows init over an existing managed directory and overwrites an
	// existing workflow file. Update always behaves as if Force were set.
	Force bool
	// ResetCurrent discards current/ and reseeds it from templates/.
	ResetCurrent bool
	// Version is written to the version marker. Empty means version.Resolve().
	Version string
}

// Installer copies a bundle into target projects. The bundle is read-only.
type Installer struct {
	bundle fs.FS
	logger *slog.Logger
}

// New creates an Installer reading from bundle.
func New(bundle fs.FS, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Installer{bundle: bundle, logger: logger}
}

// Install scaffolds or refreshes the managed directory under opts.Target.
//
// Failures abort immediately; nothing written before the failure is rolled
// back. Init against an existing managed directory without Force fails with
// *AlreadyInitializedError before anything is written.
func (i *Installer) Install(opts Options) (*Report, error) {
	if opts.Mode != ModeInit && opts.Mode != ModeUpdate {
		return nil, fmt.Errorf("unknown install mode %q", opts.Mode)
	}
	if err := checkTarget(opts.Target); err != nil {
		return nil, err
	}
	if err := i.CheckBundle(); err != nil {
		return nil, err
	}

	managed := ManagedDir(opts.Target)
	managedExists, err := exists(managed)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", managed, err)
	}
	if opts.Mode == ModeInit && managedExists && !opts.Force {
		return nil, &AlreadyInitializedError{Path: managed}
	}
	force := opts.Force || opts.Mode == ModeUpdate

	ver := opts.Version
	if ver == "" {
		ver = version.Resolve()
	}

	report := &Report{Target: opts.Target, Mode: opts.Mode, Version: ver}
	log := i.logger.With("target", opts.Target, "mode", string(opts.Mode))

	if err := os.MkdirAll(managed, dirPerm); err != nil {
		return nil, fmt.Errorf("creating %s: %w", managed, err)
	}

	for _, name := range assets.ManagedDirs {
		res, err := i.syncManaged(managed, name)
		if err != nil {
			return nil, err
		}
		log.Debug("synced managed subtree", "name", name, "action", res.Action)
		report.Results = append(report.Results, res)
	}

	res, err := ensureCompleted(managed)
	if err != nil {
		return nil, err
	}
	report.Results = append(report.Results, res)

	res, err = resolveCurrent(managed, opts.ResetCurrent)
	if err != nil {
		return nil, err
	}
	log.Debug("resolved current", "action", res.Action, "reset_requested", opts.ResetCurrent)
	report.Results = append(report.Results, res)

	res, err = writeVersion(opts.Target, ver)
	if err != nil {
		return nil, err
	}
	report.Results = append(report.Results, res)

	res, err = i.installFile("workflow", assets.WorkflowFile, filepath.Join(opts.Target, WorkflowPath), force)
	if err != nil {
		return nil, err
	}
	if res.Action == ActionSkipped {
		log.Debug("workflow exists, skipped", "path", res.Path)
	}
	report.Results = append(report.Results, res)

	return report, nil
}

// CheckBundle verifies that every path the installer reads is present in the
// bundle, so a packaging defect is reported before anything is written.
func (i *Installer) CheckBundle() error {
	dirs := []string{assets.DocsDir, assets.TemplatesDir, assets.ScriptsDir}
	for _, dir := range dirs {
		info, err := fs.Stat(i.bundle, dir)
		if err != nil || !info.IsDir() {
			return &MissingAssetError{Path: dir, Dir: true}
		}
	}
	for _, file := range []string{assets.SkillFile, assets.WorkflowFile} {
		info, err := fs.Stat(i.bundle, file)
		if err != nil || !info.Mode().IsRegular() {
			return &MissingAssetError{Path: file}
		}
	}
	return nil
}

func (i *Installer) syncManaged(managed, name string) (Result, error) {
	dest := filepath.Join(managed, name)
	res := Result{Name: name, Path: dest, Action: ActionInstalled}

	present, err := exists(dest)
	if err != nil {
		return res, fmt.Errorf("checking %s: %w", dest, err)
	}
	if present {
		res.Action = ActionReplaced
	}
	if err := replaceTree(i.bundle, assets.ManagedDir(name), dest); err != nil {
		return res, fmt.Errorf("syncing %s: %w", name, err)
	}
	return res, nil
}

func ensureCompleted(managed string) (Result, error) {
	dest := filepath.Join(managed, CompletedDirName)
	res := Result{Name: CompletedDirName, Path: dest, Action: ActionPreserved}

	present, err := exists(dest)
	if err != nil {
		return res, fmt.Errorf("checking %s: %w", dest, err)
	}
	if present {
		return res, nil
	}
	if err := os.MkdirAll(dest, dirPerm); err != nil {
		return res, fmt.Errorf("creating %s: %w", dest, err)
	}
	res.Action = ActionCreated
	return res, nil
}

// resolveCurrent seeds current/ from the freshly synced templates/ when it is
// missing or a reset was requested, and leaves it alone otherwise.
func resolveCurrent(managed string, reset bool) (Result, error) {
	dest := filepath.Join(managed, CurrentDirName)
	res := Result{Name: CurrentDirName, Path: dest, Action: ActionPreserved}

	present, err := exists(dest)
	if err != nil {
		return res, fmt.Errorf("checking %s: %w", dest, err)
	}
	if present && !reset {
		return res, nil
	}

	if err := replaceTree(os.DirFS(managed), TemplatesDirName, dest); err != nil {
		return res, fmt.Errorf("seeding %s from %s: %w", CurrentDirName, TemplatesDirName, err)
	}
	if present {
		res.Action = ActionReset
	} else {
		res.Action = ActionInstalled
	}
	return res, nil
}

func writeVersion(target, ver string) (Result, error) {
	dest := VersionFile(target)
	res := Result{Name: "version", Path: dest, Action: ActionWritten}
	if err := os.WriteFile(dest, []byte(strings.TrimSpace(ver)+"\n"), filePerm); err != nil {
		return res, fmt.Errorf("writing version marker: %w", err)
	}
	return res, nil
}
