package config

import "github.com/spf13/cobra"

// RegisterFlags registers the persistent CLI flags on the root command.
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Emit logs as raw JSON instead of console format")
	cmd.PersistentFlags().String("proxy", "", "HTTP/SOCKS5 proxy (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", "", "Hard timeout per request (e.g., 30s)")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().StringArrayP("header", "H", nil, "Extra request header (repeatable, \"Key: Value\")")
	cmd.PersistentFlags().String("config", "", "Path to YAML configuration file (optional)")
	cmd.PersistentFlags().String("db", "", "SQLite database path (default data/officials.db)")
	cmd.PersistentFlags().String("export-dir", "", "Directory for exported files (default data)")
	cmd.PersistentFlags().Float64("rate", 0, "Requests per second against each host (default 0.5)")
	cmd.PersistentFlags().Int("workers", 0, "Concurrent person-page fetchers (default 4)")
}
