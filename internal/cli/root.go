// Package cli implements the spec-dock command line: init, update and version.
//
// Commands never call os.Exit. Every failure is printed once, on stderr, and
// returned as an *exitError; Execute turns that into the process exit code.
package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spec-dock/spec-dock/internal/config"
	clierrors "github.com/spec-dock/spec-dock/internal/errors"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	debug      bool
	verbose    bool
	noColor    bool
}

// app wires one invocation of the command tree to its output streams.
type app struct {
	stdout io.Writer
	stderr io.Writer
	opts   globalOptions

	// loadOptions is the base for config.Load; the --config flag fills in
	// ConfigPath. Tests set SkipUserConfig.
	loadOptions config.LoadOptions
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run runs the CLI with args and returns the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	return newApp(stdout, stderr).run(args)
}

func (a *app) run(args []string) int {
	root := a.newRootCmd()
	root.SetArgs(args)

	err := root.Execute()

	// Anything cobra returns on its own is a parse error: unknown flag,
	// unknown command or bad positional arguments.
	var exitErr *exitError
	if err != nil && !stderrors.As(err, &exitErr) {
		a.printError(usageError(err), a.opts.noColor)
		err = &exitError{code: ExitUsage, err: err}
	}
	return ExitCode(err)
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spec-dock",
		Short: "Scaffold and update the .spec-dock workspace in a project",
		Long: `spec-dock installs a spec-driven workflow into a project.

It manages .spec-dock/ (docs, templates, scripts, current, completed and a
version marker), a Codex skill under .codex/skills/ and a CI workflow under
.github/workflows/.`,
		Example: `  # Scaffold into the current directory
  spec-dock init

  # Refresh managed files, keeping your work in .spec-dock/current
  spec-dock update

  # Start over from the templates
  spec-dock update --reset-current`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("a command is required (init, update, version)")
		},
	}

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "config file (default: ~/.config/spec-dock/config.yml)")
	flags.BoolVar(&a.opts.debug, "debug", false, "enable debug logging on stderr")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "list every installed path and show remediation hints on errors")
	flags.BoolVar(&a.opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.newInitCmd(),
		a.newUpdateCmd(),
		a.newVersionCmd(),
	)

	return root
}

// usageError converts a parse failure into an Argument error.
func usageError(err error) *clierrors.CLIError {
	cliErr := clierrors.NewArgumentError(err.Error(),
		"Run 'spec-dock --help' for usage",
	)
	cliErr.Cause = err
	return cliErr
}

// printError writes err to stderr on a single line, with remediation steps
// when --verbose is set.
func (a *app) printError(err *clierrors.CLIError, noColor bool) {
	clierrors.FprintError(a.stderr, err, clierrors.FormatOptions{
		Color:       clierrors.ColorEnabled(a.stderr, noColor),
		Remediation: a.opts.verbose,
	})
}

// fail reports err and returns the exitError carrying code.
func (a *app) fail(err *clierrors.CLIError, code int, noColor bool) error {
	a.printError(err, noColor)
	return &exitError{code: code, err: err}
}
