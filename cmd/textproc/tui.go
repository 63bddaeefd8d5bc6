package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"textproc/internal/tui"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Analyze text interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// logs would draw over the screen; only a configured file receives them
			a, err := bootstrap(opts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			analyzer, closeAnalyzer, err := a.newAnalyzer(cmd.Context(), remote)
			if err != nil {
				return err
			}
			defer closeAnalyzer()

			backend := "local"
			if remote {
				backend = "grpc " + a.cfg.Client.Target()
			}
			_, err = tea.NewProgram(tui.New(analyzer, backend), tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "send text to the gRPC service (client.host/port)")
	return cmd
}
