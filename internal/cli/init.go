package cli

import (
	"github.com/spf13/cobra"

	"github.com/spec-dock/spec-dock/internal/installer"
)

func (a *app) newInitCmd() *cobra.Command {
	var (
		force        bool
		resetCurrent bool
		noSkill      bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Scaffold .spec-dock into a project",
		Long: `Scaffold .spec-dock into a project.

This command:
  1. Installs docs, templates and scripts to .spec-dock/
  2. Seeds .spec-dock/current from the templates and creates .spec-dock/completed
  3. Writes the version marker .spec-dock/spec-dock.version
  4. Installs the CI workflow to .github/workflows/spec-dock-close.yml
  5. Installs the Codex skill to .codex/skills/ (unless --no-skill)

Init refuses to run when .spec-dock already exists. Use --force to
re-scaffold, or 'spec-dock update' to refresh managed files.`,
		Example: `  spec-dock init
  spec-dock init ../my-project
  spec-dock init --force --reset-current`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := installRequest{
				mode:         installer.ModeInit,
				path:         pathArg(args),
				force:        force,
				resetCurrent: resetCurrent,
			}
			if cmd.Flags().Changed("no-skill") {
				req.noSkill = &noSkill
			}
			return a.runInstall(req)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite managed files if .spec-dock already exists")
	cmd.Flags().BoolVar(&resetCurrent, "reset-current", false, "reset .spec-dock/current from templates")
	cmd.Flags().BoolVar(&noSkill, "no-skill", false, "do not install the Codex skill into .codex/skills/")

	return cmd
}

// pathArg returns the optional positional target path.
func pathArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
