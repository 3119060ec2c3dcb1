// Package assets provides the bundle of docs, templates, scripts, skill and CI
// workflow files that spec-dock installs into a project.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// bundleFS embeds the asset tree. The all: prefix keeps files such as
// discussions/_template.md that embed would otherwise skip.
//
//go:embed all:bundle
var bundleFS embed.FS

// Paths inside the bundle, slash-separated as io/fs requires.
const (
	SpecDockDir  = "spec_dock"
	DocsDir      = SpecDockDir + "/docs"
	TemplatesDir = SpecDockDir + "/templates"
	ScriptsDir   = SpecDockDir + "/scripts"
	SkillFile    = "codex_skills/spec-driven-tdd-workflow/SKILL.md"
	WorkflowFile = "github/workflows/spec-dock-close.yml"
)

// ManagedDirs lists the bundle subtrees mirrored into the managed directory,
// in install order.
var ManagedDirs = []string{"docs", "templates", "scripts"}

// Embedded returns the bundle compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(bundleFS, "bundle")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(fmt.Sprintf("assets: %v", err))
	}
	return sub
}

// Open returns the bundle rooted at dir, or the embedded bundle when dir is empty.
func Open(dir string) (fs.FS, error) {
	if dir == "" {
		return Embedded(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening assets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets path is not a directory: %s", dir)
	}
	return os.DirFS(dir), nil
}

// ManagedDir returns the bundle path of a managed subtree name ("docs", ...).
func ManagedDir(name string) string {
	return path.Join(SpecDockDir, name)
}
