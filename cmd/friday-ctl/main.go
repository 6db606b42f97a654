package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"friday/internal/ipc"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var socket string

	root := &cobra.Command{
		Use:          "friday-ctl",
		Short:        "Control a running friday daemon",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&socket, "socket", "s", ipc.SocketPath, "Daemon control socket")

	for _, c := range []struct{ name, short string }{
		{"wake", "Take commands without waiting for the wake word"},
		{"sleep", "Go back to waiting for the wake word"},
	} {
		root.AddCommand(&cobra.Command{
			Use:   c.name,
			Short: c.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := ipc.SendCommand(socket, c.name); err != nil {
					return fmt.Errorf("%s: %w", c.name, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			},
		})
	}

	return root
}
