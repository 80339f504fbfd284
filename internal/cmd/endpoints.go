package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uptimemock/uptimemock/internal/mock"
	"github.com/uptimemock/uptimemock/internal/output"
)

var endpointsBaseURL string

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List the simulated endpoints",
	Long: `List every endpoint the mock server exposes, with its category and
behavior. Pass --base-url to print monitor-ready URLs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveOutputFormat(cmd)
		if err != nil {
			return err
		}

		sink, err := resolveSink(cmd, "endpoints", format)
		if err != nil {
			return err
		}
		defer func() { _ = sink.close() }()

		catalog := output.NewCatalog(mock.NewSimulator().Endpoints(), endpointsBaseURL)
		rendered, err := output.NewFormatter(format).FormatEndpoints(catalog)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(sink.writer, rendered)
		return err
	},
}

func init() {
	rootCmd.AddCommand(endpointsCmd)
	addOutputFlags(endpointsCmd, "table|json|yaml|markdown")
	endpointsCmd.Flags().StringVar(&endpointsBaseURL, "base-url", "", "Base URL of a running server, e.g. http://localhost:3000")
}
