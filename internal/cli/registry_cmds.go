package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/lovebrew/nestdbg/internal/config"
	"github.com/lovebrew/nestdbg/internal/format/table"
	"github.com/lovebrew/nestdbg/internal/registry"
	"github.com/spf13/cobra"
)

func newAddCmd(cfg func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <ipv4>",
		Short: "Save a connection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Load(cfg().App.RegistryPath)
			if err != nil {
				return err
			}
			target := registry.Target{Name: args[0], Address: args[1]}
			if err := reg.Add(target); err != nil {
				return err
			}
			if err := reg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", args[0], args[1])
			return nil
		},
	}
}

func newRemoveCmd(cfg func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a saved connection",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Load(cfg().App.RegistryPath)
			if err != nil {
				return err
			}
			if err := reg.Remove(args[0]); err != nil {
				return err
			}
			if err := reg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newListCmd(cfg func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show saved connections",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.Load(cfg().App.RegistryPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if reg.Len() == 0 {
				fmt.Fprintln(out, "No saved connections.")
				return nil
			}
			rows := make([][]string, 0, reg.Len())
			for _, t := range reg.Targets() {
				rows = append(rows, []string{t.Name, t.Address})
			}
			for _, line := range table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft}) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newOpenConfigCmd(cfg func() config.Config, opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "open-config",
		Short: "Open the saved connections file in the default editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := cfg().App.RegistryPath
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				if err := registry.New(path, nil).Save(); err != nil {
					return err
				}
			}
			return opts.Open(path)
		},
	}
}
