// Command vectordb-proxy runs the vector database abstraction layer.
package main

import (
	"os"

	"github.com/agentcloud/vectordb-proxy/internal/cli"
)

// Version information (set at build time via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
