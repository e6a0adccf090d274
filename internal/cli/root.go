// Package cli implements the vectordb-proxy command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentcloud/vectordb-proxy/internal/config"
)

var (
	// Version information set at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"

	cfgFile string
)

// SetVersionInfo sets the version information from build flags.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "vectordb-proxy",
		Short: "Vector database abstraction layer",
		Long: `vectordb-proxy puts Pinecone and Qdrant behind one vector database contract.

It runs as a service that ingests embedded documents from RabbitMQ or Kafka,
and offers collection management commands against the configured backend.

Examples:
  # Run the ingestion service
  vectordb-proxy serve --config config.yaml

  # List collections on the configured backend
  vectordb-proxy collections list

  # Inspect one collection
  vectordb-proxy collections info docs --region EU`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); VDBP_* environment variables override it")

	root.AddCommand(newServeCommand())
	root.AddCommand(newCollectionsCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vectordb-proxy %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}
