package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmuslimabdulj/quickmeet/internal/config"
	"github.com/mmuslimabdulj/quickmeet/internal/usecase"
)

// Version is set at build time with -ldflags
var Version = "dev"

type Dependencies struct {
	Config     *config.Config
	ThemeStore usecase.ThemeStore
	Generator  *usecase.MeetingIDGenerator
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quickmeet",
		Short:         "QuickMeet video meeting site",
		Long:          "QuickMeet serves the marketing site and a simulated meeting room. Run without a subcommand to start the server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), deps)
		},
	}

	rootCmd.Version = Version

	rootCmd.AddCommand(NewServeCmd(deps))
	rootCmd.AddCommand(NewMeetingIDCmd(deps))
	rootCmd.AddCommand(NewThemeCmd(deps))

	return rootCmd
}
