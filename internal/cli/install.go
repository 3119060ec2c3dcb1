package cli

import (
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/spec-dock/spec-dock/internal/assets"
	"github.com/spec-dock/spec-dock/internal/config"
	clierrors "github.com/spec-dock/spec-dock/internal/errors"
	"github.com/spec-dock/spec-dock/internal/installer"
	"github.com/spec-dock/spec-dock/internal/logging"
	"github.com/spec-dock/spec-dock/internal/manifest"
	"github.com/spec-dock/spec-dock/internal/output"
	"github.com/spec-dock/spec-dock/internal/version"
)

// installRequest is what init and update pass to runInstall after parsing
// their own flags.
type installRequest struct {
	mode         installer.Mode
	path         string
	force        bool
	resetCurrent bool
	// noSkill is nil when --no-skill was not given, so config can decide.
	noSkill *bool
}

// runInstall resolves the target, loads configuration, installs the managed
// directory and then the skill, and reports the outcome.
func (a *app) runInstall(req installRequest) error {
	command := string(req.mode)

	// The target is checked before anything else so an invalid path always
	// exits with its own code.
	target, err := installer.ResolveTarget(req.path)
	if err != nil {
		cliErr, code := mapInstallError(command, err)
		return a.fail(cliErr, code, a.opts.noColor)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return a.fail(clierrors.ConfigLoadError(err), ExitFailure, a.opts.noColor)
	}
	noColor := a.opts.noColor || cfg.NoColor

	logger, err := a.newLogger(cfg)
	if err != nil {
		return a.fail(clierrors.ConfigLoadError(err), ExitFailure, noColor)
	}
	targetLog := logging.WithTarget(logger, target)

	bundle, err := assets.Open(cfg.AssetsDir)
	if err != nil {
		return a.fail(clierrors.MissingAsset(err.Error(), err), ExitFailure, noColor)
	}
	if cfg.AssetsDir != "" {
		targetLog.Debug("using asset bundle from directory", "assets_dir", cfg.AssetsDir)
	}

	noSkill := cfg.NoSkill
	if req.noSkill != nil {
		noSkill = *req.noSkill
	}
	force := req.force || req.mode == installer.ModeUpdate

	inst := installer.New(bundle, logger)
	report, err := inst.Install(installer.Options{
		Target:       target,
		Mode:         req.mode,
		Force:        force,
		ResetCurrent: req.resetCurrent,
		Version:      version.Resolve(),
	})
	if err != nil {
		cliErr, code := mapInstallError(command, err)
		return a.fail(cliErr, code, noColor)
	}

	skillInstalled := false
	if noSkill {
		targetLog.Debug("skill install disabled")
	} else {
		res, err := inst.InstallSkill(target, force)
		if err != nil {
			cliErr, code := mapInstallError(command, err)
			return a.fail(cliErr, code, noColor)
		}
		report.Results = append(report.Results, res)
		skillInstalled = res.Action != installer.ActionSkipped
	}

	a.recordInstall(target, command, report.Version, skillInstalled, targetLog)
	a.printReport(command, report, noColor)
	return nil
}

func (a *app) loadConfig() (*config.Configuration, error) {
	opts := a.loadOptions
	if a.opts.configPath != "" {
		opts.ConfigPath = a.opts.configPath
	}
	return config.Load(opts)
}

func (a *app) newLogger(cfg *config.Configuration) (*slog.Logger, error) {
	level := cfg.LogLevel
	if a.opts.debug {
		level = logging.LevelDebug
	}
	return logging.New(a.stderr, level, cfg.LogFormat)
}

// recordInstall updates .spec-dock/install.yml. The record is informational,
// so a failure is only logged.
func (a *app) recordInstall(target, command, ver string, skillInstalled bool, logger *slog.Logger) {
	path := manifest.PathIn(installer.ManagedDir(target))
	_, err := manifest.Touch(path, manifest.Run{
		Version:        ver,
		Command:        command,
		SkillInstalled: skillInstalled,
		Time:           time.Now().UTC(),
	}, logger)
	if err != nil {
		logger.Warn("could not write install record", "path", path, "error", err)
	}
}

func (a *app) printReport(command string, report *installer.Report, noColor bool) {
	for _, res := range report.Skipped() {
		output.PrintSkipped(a.stderr, res.Name, res.Path)
	}

	useColor := clierrors.ColorEnabled(a.stdout, noColor)
	if a.opts.verbose {
		for _, res := range report.Results {
			output.PrintResult(a.stdout, res.Name, res.Action, res.Changed(), useColor)
		}
	}
	output.PrintSuccess(a.stdout, command, report.Target, useColor)
}

// mapInstallError converts an installer error into the message and exit code
// reported to the user.
func mapInstallError(command string, err error) (*clierrors.CLIError, int) {
	var (
		invalidTarget *installer.InvalidTargetError
		initialized   *installer.AlreadyInitializedError
		missingAsset  *installer.MissingAssetError
	)

	switch {
	case stderrors.As(err, &invalidTarget):
		return clierrors.InvalidTarget(invalidTarget.Path, err), ExitInvalidTarget
	case stderrors.As(err, &initialized):
		return clierrors.AlreadyInitialized(initialized.Error(), err), ExitFailure
	case stderrors.As(err, &missingAsset):
		return clierrors.MissingAsset(missingAsset.Error(), err), ExitFailure
	default:
		return clierrors.InstallFailed(command, err), ExitFailure
	}
}
