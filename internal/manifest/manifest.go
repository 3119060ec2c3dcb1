// Package manifest reads and writes .spec-dock/install.yml, which records
// which spec-dock version last installed into a project, with which command,
// and whether the skill file was installed.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the current version of the install.yml schema.
// Increment this when making breaking changes to the schema.
const SchemaVersion = "1"

// FileName is the name of the install record inside the managed directory.
const FileName = "install.yml"

// Record represents the contents of .spec-dock/install.yml.
type Record struct {
	// SchemaVersion is the schema version for future compatibility.
	SchemaVersion string `yaml:"schema_version"`

	// SpecDockVersion is the version of spec-dock that last wrote the record.
	SpecDockVersion string `yaml:"spec_dock_version"`

	// LastCommand is "init" or "update".
	LastCommand string `yaml:"last_command"`

	// SkillInstalled is true when the skill file was present after the run.
	SkillInstalled bool `yaml:"skill_installed"`

	// CreatedAt is when the record was first written.
	CreatedAt time.Time `yaml:"created_at"`

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time `yaml:"updated_at"`
}

// PathIn returns the record path inside managedDir.
func PathIn(managedDir string) string {
	return filepath.Join(managedDir, FileName)
}

// Load reads and parses the record at path.
// A missing file returns an error wrapping fs.ErrNotExist.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading install record: %w", err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing install record YAML: %w", err)
	}
	return &rec, nil
}

// Save writes the record to path, creating the parent directory.
func (r *Record) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating install record directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling install record: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing install record: %w", err)
	}
	return nil
}

// Run describes one init or update invocation.
type Run struct {
	Version        string
	Command        string
	SkillInstalled bool
	Time           time.Time
}

// Touch loads the record at path (or starts a new one), stamps it with run
// and saves it. CreatedAt survives from an existing record. An unreadable
// record is logged and replaced.
func Touch(path string, run Run, logger *slog.Logger) (*Record, error) {
	rec, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) && logger != nil {
			logger.Warn("replacing unreadable install record", "path", path, "error", err)
		}
		rec = New(run.Version, run.Time)
	}

	rec.SchemaVersion = SchemaVersion
	rec.SpecDockVersion = run.Version
	rec.LastCommand = run.Command
	rec.SkillInstalled = run.SkillInstalled
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = run.Time
	}
	rec.UpdatedAt = run.Time

	if err := rec.Save(path); err != nil {
		return nil, err
	}
	return rec, nil
}

// New creates a Record with CreatedAt and UpdatedAt set to now.
func New(version string, now time.Time) *Record {
	return &Record{
		SchemaVersion:   SchemaVersion,
		SpecDockVersion: version,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
