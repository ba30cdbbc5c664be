package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON lines")
	cmd.PersistentFlags().String("proxy", "", "Set HTTP proxy (e.g., http://localhost:8080)")
	cmd.PersistentFlags().Duration("timeout", DefaultHTTPTimeout, "Per-attempt timeout for page requests")
	cmd.PersistentFlags().Int("max-retries", DefaultMaxRetries, "Extra attempts after a failed page request")
	cmd.PersistentFlags().String("user-agent", DefaultUserAgent, "User agent sent with every request")
	cmd.PersistentFlags().String("config", "", "Path to configuration file (optional)")
}
