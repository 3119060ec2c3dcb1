package cli

import (
	"github.com/spf13/cobra"

	"github.com/spec-dock/spec-dock/internal/installer"
)

func (a *app) newUpdateCmd() *cobra.Command {
	var (
		resetCurrent bool
		noSkill      bool
	)

	cmd := &cobra.Command{
		Use:   "update [path]",
		Short: "Update managed files (docs/templates/scripts/skill) in an existing project",
		Long: `Update managed files in a project.

Docs, templates and scripts under .spec-dock/ are replaced with the bundled
versions, and the skill and CI workflow are overwritten. Your work in
.spec-dock/current and .spec-dock/completed is kept; pass --reset-current to
discard current and reseed it from the templates.`,
		Example: `  spec-dock update
  spec-dock update --reset-current
  spec-dock update --no-skill ../my-project`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := installRequest{
				mode:         installer.ModeUpdate,
				path:         pathArg(args),
				resetCurrent: resetCurrent,
			}
			if cmd.Flags().Changed("no-skill") {
				req.noSkill = &noSkill
			}
			return a.runInstall(req)
		},
	}

	cmd.Flags().BoolVar(&resetCurrent, "reset-current", false, "reset .spec-dock/current from templates")
	cmd.Flags().BoolVar(&noSkill, "no-skill", false, "do not install the Codex skill into .codex/skills/")

	return cmd
}
