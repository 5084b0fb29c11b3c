// cmd/query-router/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "query-router",
	Short: "Natural-language NFT query routing service",
	Long: `query-router classifies NFT questions, fetches the matching analytics
and answers in plain language.

  serve   run the HTTP API and, when enabled, the zeebe job worker
  ask     answer one query and print the JSON response`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: configs/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
