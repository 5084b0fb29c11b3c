// internal/models/query.go
package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Query is the immutable per-request input to the routing pipeline. Either the
// single-entity fields (legacy /query) or the user lists (/smart-query) are set.
type Query struct {
	Text            string   `json:"query"`
	WalletAddress   string   `json:"wallet_address,omitempty"`
	CollectionID    string   `json:"collection_id,omitempty"`
	TokenID         string   `json:"token_id,omitempty"`
	UserID          string   `json:"user_id,omitempty"`
	UserWallets     []string `json:"user_wallets,omitempty"`
	UserCollections []string `json:"user_collections,omitempty"`
}

// Wallets returns the explicit wallet followed by the user's wallets, with
// blanks and duplicates removed. Classifier and orchestrator both read this.
func (q Query) Wallets() []string {
	return mergeIDs(q.WalletAddress, q.UserWallets)
}

// Collections returns the explicit collection followed by the watchlist.
func (q Query) Collections() []string {
	return mergeIDs(q.CollectionID, q.UserCollections)
}

// HasContext reports whether the user supplied any wallet or collection.
func (q Query) HasContext() bool {
	return len(q.Wallets()) > 0 || len(q.Collections()) > 0
}

// FirstWallet returns the first known wallet or "".
func (q Query) FirstWallet() string {
	if w := q.Wallets(); len(w) > 0 {
		return w[0]
	}
	return ""
}

// FirstCollection returns the first known collection or "".
func (q Query) FirstCollection() string {
	if c := q.Collections(); len(c) > 0 {
		return c[0]
	}
	return ""
}

// Summary computes the context summary handed to the classifier.
func (q Query) Summary() ContextSummary {
	return ContextSummary{
		Wallets:     q.Wallets(),
		Collections: q.Collections(),
		TokenID:     strings.TrimSpace(q.TokenID),
	}
}

func mergeIDs(single string, list []string) []string {
	out := make([]string, 0, len(list)+1)
	seen := make(map[string]struct{}, len(list)+1)
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	add(single)
	for _, id := range list {
		add(id)
	}
	return out
}

// ContextSummary is what the classifier is told about the user's known entities.
type ContextSummary struct {
	Wallets     []string `json:"wallets"`
	Collections []string `json:"collections"`
	TokenID     string   `json:"token_id,omitempty"`
}

func (c ContextSummary) WalletCount() int     { return len(c.Wallets) }
func (c ContextSummary) CollectionCount() int { return len(c.Collections) }

// Sentence renders the counts the way every synthesis template embeds them.
func (c ContextSummary) Sentence() string {
	return fmt.Sprintf("User has %d wallet(s) and %d watched collection(s).", c.WalletCount(), c.CollectionCount())
}

// ShortID truncates a wallet or collection identifier to first6...last4 for display.
// Identifiers of 10 characters or fewer are returned unchanged.
func ShortID(id string) string {
	if len(id) <= 10 {
		return id
	}
	return id[:6] + "..." + id[len(id)-4:]
}

// Truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
