package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/ascii"
	"github.com/spf13/cobra"

	"github.com/uptimemock/uptimemock/internal/output"
	"github.com/uptimemock/uptimemock/internal/server/handlers"
)

var (
	stateServerURL     string
	stateListEndpoint  string
	stateResetEndpoint string
	stateResetYes      bool
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or reset per-endpoint state on a running server",
}

var stateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List endpoint counters held by a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveOutputFormat(cmd)
		if err != nil {
			return err
		}
		if format != output.FormatJSON && format != output.FormatTable {
			return fmt.Errorf("unsupported output format: %s", format)
		}

		var resp handlers.StateResponse
		path := withEndpointQuery("/_mock/state", stateListEndpoint)
		if err := stateClient().do(cmd.Context(), http.MethodGet, path, &resp); err != nil {
			return err
		}

		sink, err := resolveSink(cmd, "state.list", format)
		if err != nil {
			return err
		}
		defer func() { _ = sink.close() }()

		if format == output.FormatJSON {
			payload, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(sink.writer, string(payload))
			return err
		}

		_, err = fmt.Fprint(sink.writer, ascii.DrawBox(renderStateLines(resp), 0))
		return err
	},
}

func renderStateLines(resp handlers.StateResponse) string {
	lines := []string{"Endpoint State", ""}
	if len(resp.Endpoints) == 0 {
		return strings.Join(append(lines, "(no endpoint has recorded state)"), "\n")
	}

	names := make([]string, 0, len(resp.Endpoints))
	for name := range resp.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		st := resp.Endpoints[name]
		downUntil := "-"
		if st.DownUntil != nil {
			downUntil = st.DownUntil.UTC().Format(time.RFC3339)
		}
		lines = append(lines, fmt.Sprintf("%s: count=%d last=%s down=%t down_until=%s",
			name, st.RequestCount, st.LastRequestTime.UTC().Format(time.RFC3339), st.IsDown, downUntil))
	}
	return strings.Join(lines, "\n")
}

var stateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset endpoint counters on a running server",
	Long: `Reset endpoint counters on a running server. With --endpoint only that
entry is discarded; resetting every entry requires --yes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := strings.TrimSpace(stateResetEndpoint)
		if endpoint == "" && !stateResetYes {
			return fmt.Errorf("resetting every endpoint requires --yes (or pass --endpoint)")
		}

		path := withEndpointQuery("/_mock/state/reset", endpoint)

		var resp handlers.ResetResponse
		if err := stateClient().do(cmd.Context(), http.MethodPost, path, &resp); err != nil {
			return err
		}

		if endpoint != "" {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Reset state for %s\n", endpoint)
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Reset %d endpoint entr(ies)\n", resp.Reset)
		return err
	},
}

func withEndpointQuery(path, endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return path
	}
	return path + "?endpoint=" + url.QueryEscape(endpoint)
}

func stateClient() *operatorClient {
	base := stateServerURL
	if base == "" {
		base = defaultServerURL()
	}
	return newOperatorClient(base)
}

func init() {
	stateCmd.PersistentFlags().StringVar(&stateServerURL, "server-url", "", "Base URL of the running server (default from config)")

	addOutputFlags(stateListCmd, "table|json")
	stateListCmd.Flags().StringVar(&stateListEndpoint, "endpoint", "", "List a single endpoint, e.g. /flapping")

	stateResetCmd.Flags().StringVar(&stateResetEndpoint, "endpoint", "", "Reset a single endpoint, e.g. /flapping")
	stateResetCmd.Flags().BoolVar(&stateResetYes, "yes", false, "Confirm resetting every endpoint")

	stateCmd.AddCommand(stateListCmd)
	stateCmd.AddCommand(stateResetCmd)
	rootCmd.AddCommand(stateCmd)
}
