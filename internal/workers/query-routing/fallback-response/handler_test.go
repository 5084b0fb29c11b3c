// internal/workers/query-routing/fallback-response/handler_test.go
package fallbackresponse

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"nft-query-router/internal/clients/analytics"
	"nft-query-router/internal/common/logger"
	"nft-query-router/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	res    *analytics.Result
	err    error
	panics bool
	calls  []string
}

func (f *fakeSource) WalletHealth(_ context.Context, w string, _ analytics.Params) (*analytics.Result, error) {
	f.calls = append(f.calls, w)
	if f.panics {
		panic("boom")
	}
	return f.res, f.err
}

func createTestHandler(t *testing.T, src WalletHealthSource) *Handler {
	return NewHandler(LoadConfig(), src, logger.NewTestLogger(t))
}

var cause = errors.New("summarizer returned malformed response")

func TestExecute_WalletCheckQuotesExcerpt(t *testing.T) {
	src := &fakeSource{res: &analytics.Result{Records: []map[string]interface{}{
		{"portfolio_value": 12.5, "zblob": strings.Repeat("x", 400)},
	}}}
	h := createTestHandler(t, src)

	resp := h.Execute(context.Background(), &Input{
		Query: models.Query{UserWallets: []string{"0xFIRST", "0xSECOND"}},
		Cause: cause,
	})

	require.NotNil(t, resp)
	assert.Equal(t, []string{"0xFIRST"}, src.calls)
	assert.Equal(t, models.ActionFallbackWalletCheck, resp.ActionTaken)
	assert.Equal(t, "0xFIRST", resp.DataSource)
	assert.True(t, strings.HasPrefix(resp.Response, "I found information about your wallet. Here's a quick overview: "))
	assert.True(t, strings.HasSuffix(resp.Response, "... Stay safe in the NFT market!"))
	assert.Contains(t, resp.Response, "portfolio_value")
	assert.NotContains(t, resp.Response, strings.Repeat("x", 250))
	assert.Contains(t, resp.Reasoning, "malformed")
}

func TestExecute_ExcerptKeepsValidUTF8(t *testing.T) {
	src := &fakeSource{res: &analytics.Result{Records: []map[string]interface{}{
		{"labels": strings.Repeat("猿", 300)},
	}}}
	h := createTestHandler(t, src)

	resp := h.Execute(context.Background(), &Input{
		Query: models.Query{UserWallets: []string{"0xFIRST"}},
		Cause: cause,
	})

	require.NotNil(t, resp)
	assert.Equal(t, models.ActionFallbackWalletCheck, resp.ActionTaken)
	assert.True(t, utf8.ValidString(resp.Response))
}

func TestExecute_EmptyResultIsNoActivity(t *testing.T) {
	for name, res := range map[string]*analytics.Result{
		"empty marker":  {Empty: true},
		"blank records": {Records: []map[string]interface{}{{}}},
		"nil result":    nil,
	} {
		t.Run(name, func(t *testing.T) {
			h := createTestHandler(t, &fakeSource{res: res})
			resp := h.Execute(context.Background(), &Input{Query: models.Query{WalletAddress: "0xABCDEF1234567890"}})

			assert.Equal(t, models.ActionFallbackNoActivity, resp.ActionTaken)
			assert.Contains(t, resp.Response, "0xABCD...7890")
			assert.Empty(t, resp.Error)
		})
	}
}

func TestExecute_FetchFailureIsUnavailable(t *testing.T) {
	h := createTestHandler(t, &fakeSource{err: &analytics.APIError{StatusCode: 503}})

	resp := h.Execute(context.Background(), &Input{Query: models.Query{UserWallets: []string{"0xW"}}, Cause: cause})

	assert.Equal(t, models.ActionFallbackUnavailable, resp.ActionTaken)
	assert.Contains(t, resp.Response, "temporarily unavailable")
}

func TestExecute_NoWalletsIsOnboarding(t *testing.T) {
	src := &fakeSource{}
	h := createTestHandler(t, src)

	resp := h.Execute(context.Background(), &Input{Query: models.Query{UserCollections: []string{"azuki"}}, Cause: cause})

	assert.Empty(t, src.calls)
	assert.Equal(t, models.ActionOnboarding, resp.ActionTaken)
	assert.Contains(t, resp.Response, "wallet address")
}

func TestExecute_NeverFails(t *testing.T) {
	t.Run("panicking source", func(t *testing.T) {
		h := createTestHandler(t, &fakeSource{panics: true})
		resp := h.Execute(context.Background(), &Input{Query: models.Query{UserWallets: []string{"0xW"}}})
		require.NotNil(t, resp)
		assert.Equal(t, models.ActionFallbackUnavailable, resp.ActionTaken)
	})

	t.Run("no source", func(t *testing.T) {
		h := createTestHandler(t, nil)
		resp := h.Execute(context.Background(), &Input{Query: models.Query{UserWallets: []string{"0xW"}}})
		require.NotNil(t, resp)
		assert.Equal(t, models.ActionFallbackUnavailable, resp.ActionTaken)
	})
}
