// internal/clients/analytics/client.go
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nft-query-router/internal/common/config"
	commonhttp "nft-query-router/internal/common/http"
	"nft-query-router/internal/models"
)

const (
	TrendingLimit = 20
	TopLimit      = 10
	WhalesLimit   = 20
)

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// APIError is returned for every failed provider call. Transport failures
// carry StatusCode 0.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("analytics request to %s failed: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("analytics API error %d on %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

// Temporary reports whether a retry could succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsAPIError reports whether err came from the provider client.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// Result is the typed outcome of one provider call.
type Result struct {
	Records []map[string]interface{}
	Empty   bool
}

func newResult(records []map[string]interface{}) *Result {
	return &Result{Records: records, Empty: len(records) == 0}
}

// Params are the common query parameters. Zero values fall back to the
// client defaults and then to the endpoint defaults.
type Params struct {
	Blockchain      string
	TimeRange       string
	SortBy          string
	Offset          int
	Limit           int
	ContractAddress string
	SlugName        string
	Collection      string
	Wallet          string
	TokenID         string
}

// ForCollection returns params targeting one collection identifier. Ids
// starting with 0x are contract addresses; anything else is a slug.
func ForCollection(id string) Params {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(strings.ToLower(id), "0x") {
		return Params{ContractAddress: id}
	}
	return Params{SlugName: id}
}

// Client talks to the UnleashNFTs v2 REST API.
type Client struct {
	baseURL      string
	apiKey       string
	blockchain   string
	timeRange    string
	limit        int
	maxRetries   int
	retryBackoff time.Duration
	http         *http.Client
	logger       Logger
}

func NewClient(cfg config.AnalyticsConfig, log Logger) *Client {
	return NewClientWithHTTP(cfg, commonhttp.NewClient(config.GetDuration(cfg.Timeout)), log)
}

func NewClientWithHTTP(cfg config.AnalyticsConfig, httpClient *http.Client, log Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = config.DefaultAnalyticsBaseURL
	}
	return &Client{
		baseURL:      base,
		apiKey:       cfg.APIKey,
		blockchain:   cfg.Blockchain,
		timeRange:    cfg.TimeRange,
		limit:        cfg.Limit,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: config.GetDuration(cfg.RetryBackoff),
		http:         httpClient,
		logger:       log,
	}
}

func (c *Client) query(ep endpoint, p Params) url.Values {
	v := url.Values{}
	if !ep.noChain {
		v.Set("blockchain", firstNonEmpty(p.Blockchain, c.blockchain, "ethereum"))
		v.Set("time_range", firstNonEmpty(p.TimeRange, ep.timeRange, c.timeRange, "24h"))
	}
	if sort := firstNonEmpty(p.SortBy, ep.sortBy); sort != "" {
		v.Set("sort_by", sort)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = c.limit
	}
	if limit <= 0 {
		limit = 30
	}
	v.Set("offset", strconv.Itoa(p.Offset))
	v.Set("limit", strconv.Itoa(limit))

	if p.ContractAddress != "" {
		v.Set("contract_address", p.ContractAddress)
	}
	slug := firstNonEmpty(p.SlugName, p.Collection)
	if slug != "" && ep.collectionKey != "" {
		v.Set(ep.collectionKey, slug)
	}
	if p.Wallet != "" {
		v.Set("wallet", p.Wallet)
	}
	if p.TokenID != "" {
		v.Set("token_id", p.TokenID)
	}
	return v
}

func (c *Client) get(ctx context.Context, ep endpoint, p Params) (*Result, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &APIError{Endpoint: ep.path, Message: ctx.Err().Error()}
			}
		}

		res, err := c.do(ctx, ep, p)
		if err == nil {
			return res, nil
		}
		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Temporary() || ctx.Err() != nil {
			break
		}
		if attempt < c.maxRetries && c.logger != nil {
			c.logger.Warn("analytics request failed, retrying", map[string]interface{}{
				"endpoint": ep.path,
				"attempt":  attempt + 1,
				"error":    err.Error(),
			})
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, ep endpoint, p Params) (*Result, error) {
	u := c.baseURL + "/" + ep.path + "?" + c.query(ep, p).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &APIError{Endpoint: ep.path, Message: err.Error()}
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Endpoint: ep.path, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   ep.path,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var payload struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &APIError{Endpoint: ep.path, Message: "decode response: " + err.Error()}
	}

	if c.logger != nil {
		c.logger.Debug("analytics request completed", map[string]interface{}{
			"endpoint": ep.path,
			"records":  len(payload.Data),
		})
	}
	return newResult(payload.Data), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Wallet operations.

// WalletHealth fetches portfolio and risk scores for one wallet.
func (c *Client) WalletHealth(ctx context.Context, wallet string, p Params) (*Result, error) {
	p.Wallet = wallet
	return c.get(ctx, epWalletHealth, p)
}

func (c *Client) WalletAnalytics(ctx context.Context, wallet string, p Params) (*Result, error) {
	p.Wallet = wallet
	return c.get(ctx, epWalletAnalytics, p)
}

func (c *Client) WalletScores(ctx context.Context, wallet string, p Params) (*Result, error) {
	p.Wallet = wallet
	return c.get(ctx, epWalletScores, p)
}

func (c *Client) WalletTraders(ctx context.Context, wallet string, p Params) (*Result, error) {
	p.Wallet = wallet
	return c.get(ctx, epWalletTraders, p)
}

func (c *Client) WalletWashtrade(ctx context.Context, wallet string, p Params) (*Result, error) {
	p.Wallet = wallet
	return c.get(ctx, epWalletWashtrade, p)
}

func (c *Client) WalletProfile(ctx context.Context, wallet string, p Params) (*Result, error) {
	p.Wallet = wallet
	return c.get(ctx, epWalletProfile, p)
}

// Collection operations. p usually comes from ForCollection.

// CollectionStats fetches all-time sales analytics for one collection.
func (c *Client) CollectionStats(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionStats, p)
}

func (c *Client) CollectionAnalytics(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionAnalytics, p)
}

func (c *Client) CollectionHolders(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionHolders, p)
}

func (c *Client) CollectionTraders(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionTraders, p)
}

func (c *Client) CollectionScores(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionScores, p)
}

func (c *Client) CollectionWhales(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionWhales, p)
}

// CollectionWashtrade is the collection risk score.
func (c *Client) CollectionWashtrade(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionWashtrade, p)
}

func (c *Client) CollectionProfile(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionProfile, p)
}

func (c *Client) CollectionTraits(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionTraits, p)
}

func (c *Client) CollectionMetadata(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionMetadata, p)
}

func (c *Client) CollectionCategories(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionCategories, p)
}

func (c *Client) CollectionOwners(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epCollectionOwners, p)
}

// Market-wide aggregates.

func (c *Client) MarketAnalytics(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epMarketAnalytics, p)
}

func (c *Client) MarketHolders(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epMarketHolders, p)
}

func (c *Client) MarketTraders(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epMarketTraders, p)
}

func (c *Client) MarketScores(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epMarketScores, p)
}

func (c *Client) MarketWashtrade(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epMarketWashtrade, p)
}

// Marketplaces.

func (c *Client) MarketplaceAnalytics(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epMarketplaceAnalytics, p)
}

func (c *Client) MarketplaceHolders(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epMarketplaceHolders, p)
}

func (c *Client) MarketplaceTraders(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epMarketplaceTraders, p)
}

func (c *Client) MarketplaceWashtrade(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epMarketplaceWashtrade, p)
}

func (c *Client) MarketplaceMetadata(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epMarketplaceMetadata, p)
}

// Single NFTs.

// NFTValuation fetches the price estimate for one token of a collection.
func (c *Client) NFTValuation(ctx context.Context, contract, tokenID string, p Params) (*Result, error) {
	p.ContractAddress = contract
	p.TokenID = tokenID
	return c.get(ctx, epNFTValuation, p)
}

func (c *Client) NFTMetadata(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epNFTMetadata, p)
}

func (c *Client) NFTOwner(ctx context.Context, contract, tokenID string, p Params) (*Result, error) {
	p.ContractAddress = contract
	p.TokenID = tokenID
	return c.get(ctx, epNFTOwner, p)
}

func (c *Client) SupportedBlockchains(ctx context.Context, p Params) (*Result, error) {
	return c.get(ctx, epBlockchains, p)
}

// Helpers used by the market intents.

// TrendingCollections returns collections ordered by volume.
func (c *Client) TrendingCollections(ctx context.Context, p Params) (*Result, error) {
	p.SortBy = "volume"
	if p.Limit == 0 {
		p.Limit = TrendingLimit
	}
	return c.get(ctx, epCollectionAnalytics, p)
}

// TopCollections returns collections ordered by sales.
func (c *Client) TopCollections(ctx context.Context, p Params) (*Result, error) {
	p.SortBy = "sales"
	if p.Limit == 0 {
		p.Limit = TopLimit
	}
	return c.get(ctx, epCollectionAnalytics, p)
}

// MarketWhales returns whale activity across all collections.
func (c *Client) MarketWhales(ctx context.Context, p Params) (*Result, error) {
	if p.Limit == 0 {
		p.Limit = WhalesLimit
	}
	return c.get(ctx, epCollectionWhales, p)
}

// Status maps the result onto a fetch entry status.
func (r *Result) Status() models.EntryStatus {
	if r == nil || r.Empty {
		return models.StatusEmpty
	}
	return models.StatusOK
}
