package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/spec-dock/spec-dock/internal/version"
)

func (a *app) newVersionCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display the spec-dock version, commit, build date, Go version and platform.",
		Example: `  spec-dock version
  spec-dock version --plain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ver := version.Resolve()

			if plain {
				fmt.Fprintln(out, ver)
				return nil
			}

			if version.IsDevBuild() {
				ver += " (development build)"
			}
			fmt.Fprintf(out, "spec-dock %s\n", ver)
			fmt.Fprintf(out, "  commit:     %s\n", version.Commit)
			fmt.Fprintf(out, "  built:      %s\n", version.BuildDate)
			fmt.Fprintf(out, "  go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print only the version string")

	return cmd
}
