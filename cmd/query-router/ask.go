// cmd/query-router/ask.go
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"nft-query-router/internal/models"

	"github.com/spf13/cobra"
)

var (
	askQuery       string
	askWallets     []string
	askCollections []string
	askToken       string
	askTimeout     time.Duration
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer one query and print the JSON response",
	Example: `  query-router ask --query "how's my portfolio doing?" --wallet 0xABCDEF1234567890
  query-router ask -q "what is this worth?" --collection 0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d --token 42`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askQuery, "query", "q", "", "question to answer")
	askCmd.Flags().StringSliceVar(&askWallets, "wallet", nil, "wallet address (repeatable)")
	askCmd.Flags().StringSliceVar(&askCollections, "collection", nil, "collection contract or slug (repeatable)")
	askCmd.Flags().StringVar(&askToken, "token", "", "token id for valuation queries")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall timeout")
	_ = askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	resp := a.pipeline.Run(ctx, models.Query{
		Text:            askQuery,
		TokenID:         askToken,
		UserWallets:     askWallets,
		UserCollections: askCollections,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
