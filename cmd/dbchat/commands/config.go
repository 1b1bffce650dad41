package commands

import (
	"github.com/dbchat/dbchat/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the dbchat configuration",
	}

	var dir string
	save := &cobra.Command{
		Use:   "save",
		Short: "Save the current settings without secrets",
		Long: `Write the effective settings, including flags, to .dbchat.yaml in
~/.config/dbchat or --dir. Passwords and API keys are never written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				path string
				err  error
			)
			if dir != "" {
				path, err = config.SaveTo(a.fs, a.cfg, dir)
			} else {
				path, err = config.Save(a.fs, a.cfg)
			}
			if err != nil {
				return err
			}
			a.printer.Success("Saved config to %s", path)
			return nil
		},
	}
	save.Flags().StringVar(&dir, "dir", "", "directory to write .dbchat.yaml into")

	cmd.AddCommand(save)
	return cmd
}
