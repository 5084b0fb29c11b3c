package smartquery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"nft-query-router/internal/clients/analytics"
	"nft-query-router/internal/common/config"
	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/common/logger"
	"nft-query-router/internal/common/observability"
	"nft-query-router/internal/models"
	classifyintent "nft-query-router/internal/workers/query-routing/classify-intent"
	fallbackresponse "nft-query-router/internal/workers/query-routing/fallback-response"
	"nft-query-router/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

const testWallet = "0xABCDEF1234567890"

// scriptedCompleter answers classifier prompts and summarizer prompts separately.
type scriptedCompleter struct {
	mu          sync.Mutex
	decision    string
	decisionErr error
	summary     string
	summaryErr  error
	calls       int
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if strings.Contains(prompt, "Classify the query") {
		return s.decision, s.decisionErr
	}
	return s.summary, s.summaryErr
}

func newAnalyticsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func createTestPipeline(t *testing.T, serverURL string, c Completer) *Pipeline {
	t.Helper()
	source := analytics.NewClient(config.AnalyticsConfig{
		BaseURL:      serverURL,
		APIKey:       "test-key",
		Blockchain:   "ethereum",
		TimeRange:    "24h",
		Limit:        30,
		Timeout:      2000,
		RetryBackoff: 1,
	}, logger.NewTestLogger(t))
	p, err := Build(LoadConfig(), registry.Default(), source, c, observability.NewNoop(), logger.NewTestLogger(t))
	require.NoError(t, err)
	return p
}

func TestRun_PortfolioQueryEndsWithClosingSentence(t *testing.T) {
	server := newAnalyticsServer(t, `{"data":[{"portfolio_value":12.5,"nft_count":4}]}`)
	c := &scriptedCompleter{
		decision: `{"intent":"portfolio_analysis","target_wallet":"` + testWallet + `","target_collection":null,"target_token":null,"reasoning":"portfolio question","needs_user_input":false,"response_focus":"value"}`,
		summary:  "Your portfolio is worth about 12.5 ETH across 4 NFTs.",
	}
	p := createTestPipeline(t, server.URL, c)

	resp := p.Run(context.Background(), models.Query{Text: "how's my portfolio doing?", UserWallets: []string{testWallet}})

	require.NotNil(t, resp)
	assert.Empty(t, resp.Error)
	assert.False(t, resp.NeedsInput)
	assert.Equal(t, string(registry.IntentPortfolioAnalysis), resp.ActionTaken)
	assert.Equal(t, testWallet, resp.DataSource)
	assert.Equal(t, "portfolio question", resp.Reasoning)
	assert.True(t, strings.HasSuffix(resp.Response, config.DefaultClosingSentence))
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, 2, c.calls)
}

func TestRun_GreetingHasNoClosingSentence(t *testing.T) {
	server := newAnalyticsServer(t, `{"data":[]}`)
	c := &scriptedCompleter{
		decision: `{"intent":"general_conversation","target_wallet":null,"target_collection":null,"target_token":null,"reasoning":"greeting","needs_user_input":false,"response_focus":null}`,
		summary:  "Hi! I can look at your wallets and collections. " + config.DefaultClosingSentence,
	}
	p := createTestPipeline(t, server.URL, c)

	resp := p.Run(context.Background(), models.Query{Text: "hi there", UserWallets: []string{testWallet}})

	assert.Equal(t, string(registry.IntentGeneralConversation), resp.ActionTaken)
	assert.NotContains(t, resp.Response, config.DefaultClosingSentence)
	assert.Contains(t, resp.Response, "Hi!")
}

func TestRun_EmptyQueryRejected(t *testing.T) {
	c := &scriptedCompleter{}
	p := createTestPipeline(t, "http://127.0.0.1:1", c)

	resp := p.Run(context.Background(), models.Query{Text: "   ", UserWallets: []string{testWallet}})

	assert.Equal(t, "query is required", resp.Error)
	assert.Zero(t, c.calls)
}

func TestRun_NoContextAndClassifierDown(t *testing.T) {
	c := &scriptedCompleter{decisionErr: errors.New("connection refused")}
	p := createTestPipeline(t, "http://127.0.0.1:1", c)

	resp := p.Run(context.Background(), models.Query{Text: "what should I buy?"})

	assert.True(t, resp.NeedsInput)
	assert.Equal(t, NoContextMessage, resp.Message)
	assert.Empty(t, resp.Response)
}

func TestRun_ModelAsksForInput(t *testing.T) {
	c := &scriptedCompleter{
		decision: `{"intent":"wallet_overview","target_wallet":null,"target_collection":null,"target_token":null,"reasoning":"no wallet given","needs_user_input":true,"response_focus":null}`,
	}
	p := createTestPipeline(t, "http://127.0.0.1:1", c)

	resp := p.Run(context.Background(), models.Query{Text: "how is my wallet?"})

	assert.True(t, resp.NeedsInput)
	assert.Equal(t, NeedsInputMessage, resp.Message)
	assert.Equal(t, "no wallet given", resp.Reasoning)
}

func TestRun_SummarizerFailureFallsBackToWalletCheck(t *testing.T) {
	server := newAnalyticsServer(t, `{"data":[{"portfolio_value":3.2}]}`)
	c := &scriptedCompleter{
		decision:   `{"intent":"wallet_overview","target_wallet":"` + testWallet + `","target_collection":null,"target_token":null,"reasoning":"wallet","needs_user_input":false,"response_focus":null}`,
		summaryErr: errors.New("upstream 503"),
	}
	p := createTestPipeline(t, server.URL, c)

	resp := p.Run(context.Background(), models.Query{Text: "show my wallet", UserWallets: []string{testWallet}})

	assert.Equal(t, models.ActionFallbackWalletCheck, resp.ActionTaken)
	assert.Contains(t, resp.Response, "I found information about your wallet")
	assert.Contains(t, resp.Response, "portfolio_value")
	assert.Equal(t, testWallet, resp.DataSource)
}

func TestRun_ClassifierDownWithWalletUsesFallbackDecision(t *testing.T) {
	server := newAnalyticsServer(t, `{"data":[{"portfolio_value":3.2}]}`)
	c := &scriptedCompleter{
		decisionErr: errors.New("timeout"),
		summary:     "Your wallet holds 3.2 ETH of NFTs.",
	}
	p := createTestPipeline(t, server.URL, c)

	resp := p.Run(context.Background(), models.Query{Text: "anything new?", UserWallets: []string{testWallet}})

	assert.False(t, resp.NeedsInput)
	assert.NotEmpty(t, resp.ActionTaken)
	assert.Contains(t, resp.Response, config.DefaultClosingSentence)
}

type panickingClassifier struct{}

func (panickingClassifier) Execute(context.Context, *classifyintent.Input) (*classifyintent.Output, error) {
	panic("boom")
}

type recordingFallback struct {
	cause error
}

func (f *recordingFallback) Execute(_ context.Context, in *fallbackresponse.Input) *models.Response {
	f.cause = in.Cause
	return &models.Response{Response: "fallback", ActionTaken: models.ActionFallbackUnavailable}
}

func TestRun_PanicRoutesToFallback(t *testing.T) {
	fb := &recordingFallback{}
	p := NewPipeline(Stages{Classifier: panickingClassifier{}, Fallback: fb}, nil, logger.NewTestLogger(t))

	resp := p.Run(context.Background(), models.Query{Text: "hello", UserWallets: []string{testWallet}})

	assert.Equal(t, models.ActionFallbackUnavailable, resp.ActionTaken)
	assert.NotEmpty(t, resp.RequestID)
	require.Error(t, fb.cause)
	assert.Equal(t, apperrors.ErrCodePipelineFailed, apperrors.CodeOf(fb.cause))
}

func TestDecodeQuery(t *testing.T) {
	q, err := decodeQuery(`{"query":"hi","user_wallets":["0x1"]}`)
	require.NoError(t, err)
	assert.Equal(t, "hi", q.Text)
	assert.Equal(t, []string{"0x1"}, q.UserWallets)

	_, err = decodeQuery(`{not json`)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
}

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Pipeline.MaxWallets = 2
	cfg.Pipeline.MaxCollections = 4
	cfg.Pipeline.ClosingSentence = "Stay safe."
	cfg.Camunda.Timeout = 5000

	c := FromAppConfig(cfg)

	assert.Equal(t, 2, c.MaxWallets)
	assert.Equal(t, 4, c.MaxCollections)
	assert.Equal(t, "Stay safe.", c.ClosingSentence)
	assert.Equal(t, int64(5000), c.Timeout.Milliseconds())
}
