package installer

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-dock/spec-dock/internal/logging"
)

const testVersion = "1.2.3"

func testBundle() fstest.MapFS {
	return fstest.MapFS{
		"spec_dock/docs/spec-dock-guide.md":              {Data: []byte("# Guide\n")},
		"spec_dock/templates/requirement.md":             {Data: []byte("# Requirement\n")},
		"spec_dock/templates/design.md":                  {Data: []byte("# Design\n")},
		"spec_dock/templates/discussions/_template.md":   {Data: []byte("# Discussion\n")},
		"spec_dock/scripts/spec-dock-close.sh":           {Data: []byte("#!/bin/sh\necho close\n")},
		"codex_skills/spec-driven-tdd-workflow/SKILL.md": {Data: []byte("skill v1\n")},
		"github/workflows/spec-dock-close.yml":           {Data: []byte("name: close\n")},
	}
}

func newTestInstaller(bundle fs.FS) *Installer {
	return New(bundle, logging.NewForTest())
}

func install(t *testing.T, inst *Installer, target string, mode Mode, force, reset bool) *Report {
	t.Helper()
	report, err := inst.Install(Options{
		Target:       target,
		Mode:         mode,
		Force:        force,
		ResetCurrent: reset,
		Version:      testVersion,
	})
	require.NoError(t, err)
	return report
}

// assertMirrors checks that dir holds exactly the files under root in fsys.
func assertMirrors(t *testing.T, fsys fs.FS, root, dir string) {
	t.Helper()

	want := map[string]string{}
	require.NoError(t, fs.WalkDir(fsys, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		want[relPath(root, name)] = string(data)
		return nil
	}))

	got := map[string]string{}
	require.NoError(t, filepath.WalkDir(dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, name)
		if err != nil {
			return err
		}
		got[filepath.ToSlash(rel)] = string(data)
		return nil
	}))

	assert.Equal(t, want, got, "%s should mirror %s", dir, root)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInstall_InitCreatesLayout(t *testing.T) {
	t.Parallel()

	bundle := testBundle()
	target := t.TempDir()

	report := install(t, newTestInstaller(bundle), target, ModeInit, false, false)
	managed := ManagedDir(target)

	for _, dir := range []string{"docs", "templates", "scripts", CurrentDirName, CompletedDirName} {
		assert.DirExists(t, filepath.Join(managed, dir))
	}
	assert.FileExists(t, filepath.Join(managed, "templates", "discussions", "_template.md"))
	assert.FileExists(t, filepath.Join(managed, CurrentDirName, "discussions", "_template.md"))
	assert.FileExists(t, filepath.Join(target, WorkflowPath))
	assert.NoFileExists(t, filepath.Join(target, SkillPath), "skill is installed by InstallSkill only")

	assert.Equal(t, testVersion+"\n", readFile(t, VersionFile(target)))

	assertMirrors(t, bundle, "spec_dock/docs", filepath.Join(managed, "docs"))
	assertMirrors(t, bundle, "spec_dock/templates", filepath.Join(managed, "templates"))
	assertMirrors(t, bundle, "spec_dock/scripts", filepath.Join(managed, "scripts"))
	assertMirrors(t, bundle, "spec_dock/templates", filepath.Join(managed, CurrentDirName))

	entries, err := os.ReadDir(filepath.Join(managed, CompletedDirName))
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Equal(t, ModeInit, report.Mode)
	assert.Equal(t, testVersion, report.Version)
	assert.Empty(t, report.Skipped())

	actions := map[string]string{}
	for _, res := range report.Results {
		actions[res.Name] = res.Action
	}
	assert.Equal(t, map[string]string{
		"docs":           ActionInstalled,
		"templates":      ActionInstalled,
		"scripts":        ActionInstalled,
		CompletedDirName: ActionCreated,
		CurrentDirName:   ActionInstalled,
		"version":        ActionWritten,
		"workflow":       ActionInstalled,
	}, actions)
}

func TestInstall_LeavesNoStagingDirectories(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	inst := newTestInstaller(testBundle())
	install(t, inst, target, ModeInit, false, false)
	install(t, inst, target, ModeUpdate, false, true)

	entries, err := os.ReadDir(ManagedDir(target))
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{CompletedDirName, CurrentDirName, "docs", "scripts", VersionFileName, "templates"}, names)
}

func TestInstall_InitRefusesExistingWithoutForce(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	managed := ManagedDir(target)
	require.NoError(t, os.MkdirAll(filepath.Join(managed, "docs"), 0o755))
	marker := filepath.Join(managed, "docs", "mine.md")
	require.NoError(t, os.WriteFile(marker, []byte("keep me\n"), 0o644))

	_, err := newTestInstaller(testBundle()).Install(Options{Target: target, Mode: ModeInit, Version: testVersion})

	var already *AlreadyInitializedError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, managed, already.Path)
	assert.Contains(t, err.Error(), "spec-dock update")

	assert.Equal(t, "keep me\n", readFile(t, marker))
	assert.NoDirExists(t, filepath.Join(managed, CurrentDirName))
	assert.NoFileExists(t, VersionFile(target))
	assert.NoFileExists(t, filepath.Join(target, WorkflowPath))
}

func TestInstall_InitForceReplacesManagedAndKeepsCurrent(t *testing.T) {
	t.Parallel()

	bundle := testBundle()
	target := t.TempDir()
	inst := newTestInstaller(bundle)
	install(t, inst, target, ModeInit, false, false)

	managed := ManagedDir(target)
	require.NoError(t, os.WriteFile(filepath.Join(managed, "docs", "stale.md"), []byte("stale"), 0o644))
	requirement := filepath.Join(managed, CurrentDirName, "requirement.md")
	require.NoError(t, os.WriteFile(requirement, []byte("edited\n"), 0o644))

	install(t, inst, target, ModeInit, true, false)

	assertMirrors(t, bundle, "spec_dock/docs", filepath.Join(managed, "docs"))
	assert.Equal(t, "edited\n", readFile(t, requirement))
}

func TestInstall_UpdateKeepsCurrentEdits(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	inst := newTestInstaller(testBundle())
	install(t, inst, target, ModeInit, false, false)

	current := filepath.Join(ManagedDir(target), CurrentDirName)
	requirement := filepath.Join(current, "requirement.md")
	require.NoError(t, os.WriteFile(requirement, []byte(readFile(t, requirement)+"\nMOD\n"), 0o644))
	note := filepath.Join(current, "discussions", "note.md")
	require.NoError(t, os.WriteFile(note, []byte("# Note\n"), 0o644))

	report := install(t, inst, target, ModeUpdate, false, false)

	assert.Contains(t, readFile(t, requirement), "MOD")
	assert.FileExists(t, note)
	assert.Equal(t, testVersion+"\n", readFile(t, VersionFile(target)))

	for _, res := range report.Results {
		if res.Name == CurrentDirName {
			assert.Equal(t, ActionPreserved, res.Action)
		}
	}
}

func TestInstall_UpdateResetCurrentDiscardsEdits(t *testing.T) {
	t.Parallel()

	bundle := testBundle()
	target := t.TempDir()
	inst := newTestInstaller(bundle)
	install(t, inst, target, ModeInit, false, false)

	current := filepath.Join(ManagedDir(target), CurrentDirName)
	requirement := filepath.Join(current, "requirement.md")
	require.NoError(t, os.WriteFile(requirement, []byte(readFile(t, requirement)+"\nMOD\n"), 0o644))
	note := filepath.Join(current, "discussions", "note.md")
	require.NoError(t, os.WriteFile(note, []byte("# Note\n"), 0o644))

	report := install(t, inst, target, ModeUpdate, false, true)

	assert.NotContains(t, readFile(t, requirement), "MOD")
	assert.NoFileExists(t, note)
	assertMirrors(t, bundle, "spec_dock/templates", current)

	for _, res := range report.Results {
		if res.Name == CurrentDirName {
			assert.Equal(t, ActionReset, res.Action)
		}
	}
}

func TestInstall_UpdateResetRecreatesDeletedDiscussions(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	inst := newTestInstaller(testBundle())
	install(t, inst, target, ModeInit, false, false)

	discussions := filepath.Join(ManagedDir(target), CurrentDirName, "discussions")
	require.NoError(t, os.RemoveAll(discussions))

	install(t, inst, target, ModeUpdate, false, true)

	assert.FileExists(t, filepath.Join(discussions, "_template.md"))
}

func TestInstall_UpdateWithoutResetKeepsDeletedDiscussionsDeleted(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	inst := newTestInstaller(testBundle())
	install(t, inst, target, ModeInit, false, false)

	discussions := filepath.Join(ManagedDir(target), CurrentDirName, "discussions")
	require.NoError(t, os.RemoveAll(discussions))

	install(t, inst, target, ModeUpdate, false, false)

	assert.NoDirExists(t, discussions)
	assert.FileExists(t, filepath.Join(ManagedDir(target), "templates", "discussions", "_template.md"))
}

func TestInstall_UpdateReseedsMissingCurrent(t *testing.T) {
	t.Parallel()

	bundle := testBundle()
	target := t.TempDir()
	inst := newTestInstaller(bundle)
	install(t, inst, target, ModeInit, false, false)

	current := filepath.Join(ManagedDir(target), CurrentDirName)
	require.NoError(t, os.RemoveAll(current))

	install(t, inst, target, ModeUpdate, false, false)

	assertMirrors(t, bundle, "spec_dock/templates", current)
}

func TestInstall_UpdateIsIdempotentOnManagedSubtrees(t *testing.T) {
	t.Parallel()

	bundle := testBundle()
	target := t.TempDir()
	inst := newTestInstaller(bundle)
	install(t, inst, target, ModeInit, false, false)

	managed := ManagedDir(target)
	requirement := filepath.Join(managed, CurrentDirName, "requirement.md")
	require.NoError(t, os.WriteFile(requirement, []byte("mine\n"), 0o644))

	for range 3 {
		// Tamper with managed content between runs; update must restore it.
		require.NoError(t, os.WriteFile(filepath.Join(managed, "scripts", "extra.sh"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(managed, "templates", "design.md"), []byte("changed"), 0o644))

		install(t, inst, target, ModeUpdate, false, false)

		for _, name := range []string{"docs", "templates", "scripts"} {
			assertMirrors(t, bundle, "spec_dock/"+name, filepath.Join(managed, name))
		}
		assert.Equal(t, "mine\n", readFile(t, requirement))
	}
}

func TestInstall_CompletedContentsUntouched(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	inst := newTestInstaller(testBundle())
	install(t, inst, target, ModeInit, false, false)

	archived := filepath.Join(ManagedDir(target), CompletedDirName, "2026-01-01", "report.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(archived), 0o755))
	require.NoError(t, os.WriteFile(archived, []byte("done\n"), 0o644))

	report := install(t, inst, target, ModeUpdate, false, true)

	assert.Equal(t, "done\n", readFile(t, archived))
	for _, res := range report.Results {
		if res.Name == CompletedDirName {
			assert.Equal(t, ActionPreserved, res.Action)
		}
	}
}

func TestInstall_WorkflowOverwriteRule(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mode       Mode
		force      bool
		wantAction string
		wantData   string
	}{
		"init keeps existing workflow": {
			mode:       ModeInit,
			wantAction: ActionSkipped,
			wantData:   "custom\n",
		},
		"init with force replaces workflow": {
			mode:       ModeInit,
			force:      true,
			wantAction: ActionReplaced,
			wantData:   "name: close\n",
		},
		"update always replaces workflow": {
			mode:       ModeUpdate,
			wantAction: ActionReplaced,
			wantData:   "name: close\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			target := t.TempDir()
			workflow := filepath.Join(target, WorkflowPath)
			require.NoError(t, os.MkdirAll(filepath.Dir(workflow), 0o755))
			require.NoError(t, os.WriteFile(workflow, []byte("custom\n"), 0o644))

			report := install(t, newTestInstaller(testBundle()), target, tt.mode, tt.force, false)

			assert.Equal(t, tt.wantData, readFile(t, workflow))
			var got string
			for _, res := range report.Results {
				if res.Name == "workflow" {
					got = res.Action
				}
			}
			assert.Equal(t, tt.wantAction, got)
		})
	}
}

func TestInstall_MissingAsset(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		remove  []string
		want    string
		wantDir bool
	}{
		"docs": {
			remove:  []string{"spec_dock/docs/spec-dock-guide.md"},
			want:    "spec_dock/docs",
			wantDir: true,
		},
		"templates": {
			remove: []string{
				"spec_dock/templates/requirement.md",
				"spec_dock/templates/design.md",
				"spec_dock/templates/discussions/_template.md",
			},
			want:    "spec_dock/templates",
			wantDir: true,
		},
		"scripts": {
			remove:  []string{"spec_dock/scripts/spec-dock-close.sh"},
			want:    "spec_dock/scripts",
			wantDir: true,
		},
		"skill": {
			remove: []string{"codex_skills/spec-driven-tdd-workflow/SKILL.md"},
			want:   "codex_skills/spec-driven-tdd-workflow/SKILL.md",
		},
		"workflow": {
			remove: []string{"github/workflows/spec-dock-close.yml"},
			want:   "github/workflows/spec-dock-close.yml",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			bundle := testBundle()
			for _, p := range tt.remove {
				delete(bundle, p)
			}
			target := t.TempDir()

			_, err := newTestInstaller(bundle).Install(Options{Target: target, Mode: ModeInit, Version: testVersion})

			var missing *MissingAssetError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.want, missing.Path)
			assert.Equal(t, tt.wantDir, missing.Dir)
			assert.Contains(t, err.Error(), tt.want)
			assert.NoDirExists(t, ManagedDir(target), "bundle check must run before any write")
		})
	}
}

func TestInstall_InvalidTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := map[string]string{
		"missing directory": filepath.Join(dir, "nope"),
		"regular file":      file,
	}

	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := newTestInstaller(testBundle()).Install(Options{Target: target, Mode: ModeUpdate})

			var invalid *InvalidTargetError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, target, invalid.Path)
		})
	}
}

func TestInstall_UnknownMode(t *testing.T) {
	t.Parallel()

	_, err := newTestInstaller(testBundle()).Install(Options{Target: t.TempDir(), Mode: "sync"})
	assert.ErrorContains(t, err, "unknown install mode")
}

func TestInstall_DefaultVersionIsResolved(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	report, err := newTestInstaller(testBundle()).Install(Options{Target: target, Mode: ModeInit})
	require.NoError(t, err)

	assert.NotEmpty(t, report.Version)
	assert.Equal(t, report.Version+"\n", readFile(t, VersionFile(target)))
}

func TestInstall_ScriptsAreExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	t.Parallel()

	target := t.TempDir()
	install(t, newTestInstaller(testBundle()), target, ModeInit, false, false)

	info, err := os.Stat(filepath.Join(ManagedDir(target), "scripts", "spec-dock-close.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100, "script should be executable")

	info, err = os.Stat(filepath.Join(ManagedDir(target), "docs", "spec-dock-guide.md"))
	require.NoError(t, err)
	assert.Zero(t, info.Mode().Perm()&0o111, "docs should not be executable")
}

func TestReport_Skipped(t *testing.T) {
	t.Parallel()

	report := &Report{Results: []Result{
		{Name: "docs", Action: ActionReplaced},
		{Name: "workflow", Action: ActionSkipped},
	}}
	skipped := report.Skipped()
	require.Len(t, skipped, 1)
	assert.Equal(t, "workflow", skipped[0].Name)

	assert.Empty(t, (&Report{}).Skipped())
}

func TestResult_Changed(t *testing.T) {
	t.Parallel()

	for _, action := range []string{ActionInstalled, ActionReplaced, ActionReset, ActionCreated, ActionWritten} {
		assert.True(t, Result{Action: action}.Changed(), action)
	}
	for _, action := range []string{ActionPreserved, ActionSkipped} {
		assert.False(t, Result{Action: action}.Changed(), action)
	}
}
