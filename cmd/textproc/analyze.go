package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	remote    bool
	sentences int
	keywords  int
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	aopts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Analyze a file or stdin and print the result as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			a, err := bootstrap(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if cmd.Flags().Changed("sentences") {
				a.cfg.Analysis.SummarySentences = aopts.sentences
			}
			if cmd.Flags().Changed("keywords") {
				a.cfg.Analysis.TopKeywords = aopts.keywords
			}
			if aopts.remote && (cmd.Flags().Changed("sentences") || cmd.Flags().Changed("keywords")) {
				a.logger.Warn("--sentences and --keywords are decided by the remote service")
			}

			analyzer, closeAnalyzer, err := a.newAnalyzer(cmd.Context(), aopts.remote)
			if err != nil {
				return err
			}
			defer closeAnalyzer()

			res, err := analyzer.Analyze(cmd.Context(), text)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().BoolVar(&aopts.remote, "remote", false, "send the text to the gRPC service (client.host/port)")
	cmd.Flags().IntVar(&aopts.sentences, "sentences", 2, "summary length in sentences")
	cmd.Flags().IntVar(&aopts.keywords, "keywords", 5, "number of keywords")
	return cmd
}

func readInput(stdin io.Reader, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
