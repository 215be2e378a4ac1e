package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
	"github.com/mmuslimabdulj/quickmeet/internal/usecase"
)

// NewThemeCmd manages the server-wide default theme. Browsers that sent no
// colour scheme hint and have no theme cookie get this value.
func NewThemeCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the default theme",
	}

	load := func() (*usecase.ThemePreference, error) {
		return usecase.NewThemePreference(deps.ThemeStore, "")
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the default theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pref, err := load()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pref.Get())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Store the default theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, ok := domain.ParseTheme(args[0])
			if !ok {
				return fmt.Errorf("unknown theme %q, want light or dark", args[0])
			}
			pref, err := load()
			if err != nil {
				return err
			}
			if err := pref.Set(theme); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pref.Get())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch the default theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pref, err := load()
			if err != nil {
				return err
			}
			theme, err := pref.Toggle()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print where the default theme is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			located, ok := deps.ThemeStore.(interface{ Path() string })
			if !ok {
				return fmt.Errorf("theme store is not file backed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), located.Path())
			return nil
		},
	})

	return cmd
}
