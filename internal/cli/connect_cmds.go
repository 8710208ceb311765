package cli

import (
	"fmt"
	"strings"

	"github.com/lovebrew/nestdbg/internal/config"
	"github.com/lovebrew/nestdbg/internal/registry"
	"github.com/spf13/cobra"
)

func newConnectCmd(cfg func() config.Config, opts Options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "connect <name|ipv4>",
		Short: "Open the console and connect to a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg := cfg().App
			reg, err := registry.Load(appCfg.RegistryPath)
			if err != nil {
				return err
			}
			if _, err := reg.Resolve(args[0]); err != nil {
				return err
			}
			appCfg.Connect = args[0]
			appCfg.TranscriptPath = file
			return launch(opts, appCfg)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "also write everything the target sends to this file")
	return cmd
}

func newAddr2lineCmd(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "addr2line <binary> <address>...",
		Short: "Resolve crash addresses to source lines",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.Resolver.Resolve(cmd.Context(), args[0], args[1:])
			if res.Stdout != "" {
				fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
			}
			if res.Stderr != "" && err == nil {
				fmt.Fprint(cmd.ErrOrStderr(), ensureNewline(res.Stderr))
			}
			return err
		},
	}
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
