package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewMeetingIDCmd(deps *Dependencies) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "meeting-id",
		Short: "Print freshly generated meeting IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			for i := 0; i < count; i++ {
				fmt.Fprintln(cmd.OutOrStdout(), deps.Generator.Generate())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of IDs to generate")

	return cmd
}
