package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/josefo727/oneillco-buy-together/internal/config"
	"github.com/josefo727/oneillco-buy-together/internal/domain"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// CatalogClient fetches product data from the catalog service.
type CatalogClient interface {
	// GetVariations resolves product ids into variations. The result is
	// aligned to the request order; unresolved ids yield nil entries that
	// callers must skip.
	GetVariations(ctx context.Context, productIDs []int) ([]*domain.Variation, error)
	// GetCollectionVariations returns every variation of a collection.
	GetCollectionVariations(ctx context.Context, collectionID string) ([]*domain.Variation, error)
	// GetSkuDetails returns the per-SKU image records of one product.
	GetSkuDetails(ctx context.Context, productID int) ([]domain.SkuDetails, error)
}

type catalogClient struct {
	rl           ratelimit.Limiter
	baseURL      string
	salesChannel int
	httpClient   *resty.Client
}

func NewCatalogClient(platform config.PlatformConfig, httpCfg config.HTTPConfig) CatalogClient {
	return &catalogClient{
		rl:           ratelimit.New(httpCfg.MaxRequestsPerSecond),
		baseURL:      platform.BaseURL,
		salesChannel: platform.SalesChannel,
		httpClient:   newHTTPClient(httpCfg),
	}
}

func newHTTPClient(cfg config.HTTPConfig) *resty.Client {
	return resty.New().
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		SetHeader("Accept", "application/json")
}

func (c *catalogClient) GetVariations(ctx context.Context, productIDs []int) ([]*domain.Variation, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	query := url.Values{}
	for _, id := range productIDs {
		query.Add("fq", fmt.Sprintf("productId:%d", id))
	}
	query.Set("sc", strconv.Itoa(c.salesChannel))
	searchURL := fmt.Sprintf("%s/api/catalog_system/pub/products/search?%s", c.baseURL, query.Encode())

	body, err := c.fetchJSON(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch variations: %w", err)
	}

	var results []productSearchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode product search response: %w", err)
	}

	byID := make(map[int]*domain.Variation, len(results))
	for _, r := range results {
		if v := r.toVariation(); v != nil {
			byID[v.ProductID] = v
		}
	}

	variations := make([]*domain.Variation, len(productIDs))
	for i, id := range productIDs {
		variations[i] = byID[id]
		if variations[i] == nil {
			log.Warnf("Catalog did not resolve product %d", id)
		}
	}

	log.Debugf("Fetched %d of %d requested variations", len(byID), len(productIDs))
	return variations, nil
}

func (c *catalogClient) GetCollectionVariations(ctx context.Context, collectionID string) ([]*domain.Variation, error) {
	query := url.Values{}
	query.Set("fq", "productClusterIds:"+collectionID)
	query.Set("sc", strconv.Itoa(c.salesChannel))
	searchURL := fmt.Sprintf("%s/api/catalog_system/pub/products/search?%s", c.baseURL, query.Encode())

	body, err := c.fetchJSON(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection %s: %w", collectionID, err)
	}

	var results []productSearchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode collection %s response: %w", collectionID, err)
	}

	variations := make([]*domain.Variation, 0, len(results))
	for _, r := range results {
		if v := r.toVariation(); v != nil {
			variations = append(variations, v)
		}
	}

	log.Debugf("Fetched %d variations for collection %s", len(variations), collectionID)
	return variations, nil
}

func (c *catalogClient) GetSkuDetails(ctx context.Context, productID int) ([]domain.SkuDetails, error) {
	detailsURL := fmt.Sprintf("%s/api/catalog_system/pub/products/variations/%d", c.baseURL, productID)

	body, err := c.fetchJSON(ctx, detailsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sku details for product %d: %w", productID, err)
	}

	var resp skuVariationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode sku details for product %d: %w", productID, err)
	}

	return resp.toSkuDetails(), nil
}

func (c *catalogClient) fetchJSON(ctx context.Context, requestURL string) ([]byte, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString()).
		Get(requestURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return resp.Bytes(), nil
}
