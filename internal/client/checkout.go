package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/josefo727/oneillco-buy-together/internal/config"
	"github.com/josefo727/oneillco-buy-together/internal/domain"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// CheckoutClient talks to the checkout service: price simulation and the
// batch add-to-cart mutation.
type CheckoutClient interface {
	// Simulate asks checkout what the given items would cost. An empty
	// item list returns a zero result without calling the service.
	Simulate(ctx context.Context, items []domain.SimulationItem) (*domain.SimulationResult, error)
	// AddToCart appends the whole batch to the order form in one call.
	AddToCart(ctx context.Context, items []domain.CartLineItem) error
}

type checkoutClient struct {
	rl           ratelimit.Limiter
	baseURL      string
	salesChannel int
	country      string
	httpClient   *resty.Client

	mu          sync.Mutex
	orderFormID string
}

func NewCheckoutClient(platform config.PlatformConfig, httpCfg config.HTTPConfig) CheckoutClient {
	return &checkoutClient{
		rl:           ratelimit.New(httpCfg.MaxRequestsPerSecond),
		baseURL:      platform.BaseURL,
		salesChannel: platform.SalesChannel,
		country:      platform.Country,
		httpClient:   newHTTPClient(httpCfg),
	}
}

type simulationRequestItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Seller   string `json:"seller"`
}

type simulationRequest struct {
	Items   []simulationRequestItem `json:"items"`
	Country string                  `json:"country"`
}

type simulationResponse struct {
	Totals []simulationTotal `json:"totals"`
}

type simulationTotal struct {
	ID    string `json:"id"`
	Value int64  `json:"value"`
}

func (c *checkoutClient) Simulate(ctx context.Context, items []domain.SimulationItem) (*domain.SimulationResult, error) {
	if len(items) == 0 {
		return &domain.SimulationResult{}, nil
	}

	reqItems := make([]simulationRequestItem, 0, len(items))
	var regularTotal int64
	for _, item := range items {
		reqItems = append(reqItems, simulationRequestItem{
			ID:       item.ItemID,
			Quantity: 1,
			Seller:   item.SellerID,
		})
		regularTotal += item.Price
	}

	simulationURL := fmt.Sprintf("%s/api/checkout/pub/orderForms/simulation?sc=%d", c.baseURL, c.salesChannel)

	body, err := c.postJSON(ctx, simulationURL, simulationRequest{Items: reqItems, Country: c.country})
	if err != nil {
		return nil, fmt.Errorf("failed to simulate cart: %w", err)
	}

	var resp simulationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode simulation response: %w", err)
	}

	return buildSimulationResult(regularTotal, resp), nil
}

// buildSimulationResult derives totals from the checkout response. The
// regular total is the sum of the requested best prices; the discounted
// total is the items total plus the (negative) promotional discounts.
func buildSimulationResult(regularTotal int64, resp simulationResponse) *domain.SimulationResult {
	var itemsTotal, discounts int64
	for _, t := range resp.Totals {
		switch t.ID {
		case "Items":
			itemsTotal = t.Value
		case "Discounts":
			discounts = t.Value
		}
	}

	result := &domain.SimulationResult{RegularTotal: regularTotal}
	if itemsTotal == 0 {
		return result
	}

	discounted := itemsTotal + discounts
	if discounted < regularTotal {
		result.DiscountedTotal = discounted
		result.HasDiscount = true
		result.DiscountPercentage = domain.DiscountPercent(regularTotal, discounted)
	}
	return result
}

type orderFormResponse struct {
	OrderFormID string `json:"orderFormId"`
}

type addItemsRequest struct {
	OrderItems []orderItem `json:"orderItems"`
}

type orderItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Seller   string `json:"seller"`
}

func (c *checkoutClient) AddToCart(ctx context.Context, items []domain.CartLineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("no items to add to cart")
	}

	orderFormID, err := c.ensureOrderForm(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve order form: %w", err)
	}

	orderItems := make([]orderItem, 0, len(items))
	for _, item := range items {
		seller := item.SellerID
		if seller == "" {
			seller = "1"
		}
		orderItems = append(orderItems, orderItem{
			ID:       item.ItemID,
			Quantity: item.Quantity,
			Seller:   seller,
		})
	}

	addURL := fmt.Sprintf("%s/api/checkout/pub/orderForm/%s/items?sc=%d", c.baseURL, orderFormID, c.salesChannel)

	if _, err := c.postJSON(ctx, addURL, addItemsRequest{OrderItems: orderItems}); err != nil {
		return fmt.Errorf("failed to add %d items to cart: %w", len(items), err)
	}

	log.Infof("✅ Added %d items to order form %s", len(items), orderFormID)
	return nil
}

// ensureOrderForm lazily creates the checkout order form this session adds
// items to. The id is a session handle, not cached catalog data.
func (c *checkoutClient) ensureOrderForm(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.orderFormID != "" {
		return c.orderFormID, nil
	}

	orderFormURL := fmt.Sprintf("%s/api/checkout/pub/orderForm?sc=%d", c.baseURL, c.salesChannel)

	body, err := c.postJSON(ctx, orderFormURL, nil)
	if err != nil {
		return "", err
	}

	var resp orderFormResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode order form response: %w", err)
	}
	if resp.OrderFormID == "" {
		return "", fmt.Errorf("checkout returned an empty order form id")
	}

	c.orderFormID = resp.OrderFormID
	return c.orderFormID, nil
}

func (c *checkoutClient) postJSON(ctx context.Context, requestURL string, payload any) ([]byte, error) {
	c.rl.Take()

	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Request-Id", uuid.NewString())
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		req.SetBody(encoded)
	}

	resp, err := req.Post(requestURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to post: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return resp.Bytes(), nil
}
