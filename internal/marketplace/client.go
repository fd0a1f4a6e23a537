package marketplace

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/wyzinc/marketsync/internal/model"
)

// Config holds the marketplace API connection settings
type Config struct {
	BaseURL        string
	Token          string
	MarketplaceID  string
	SellerID       string
	RequestTimeout time.Duration
	RequestsPerSec float64
	Burst          int
}

// Client implements CatalogSearcher and OfferFetcher against the
// marketplace HTTP API
type Client struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a marketplace API client. Returns nil when no
// token is configured so callers can fall back to the simulator.
func NewClient(config Config) *Client {
	if config.Token == "" {
		return nil
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.RequestsPerSec == 0 {
		config.RequestsPerSec = 2
	}
	if config.Burst == 0 {
		config.Burst = 5
	}
	return &Client{
		config:  config,
		client:  &http.Client{Timeout: config.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSec), config.Burst),
	}
}

// Available reports whether the client is configured for live calls
func (c *Client) Available() bool {
	return c != nil && c.config.Token != ""
}

// SearchByEAN queries the catalog by exact identifier. Candidates
// from this path carry MatchedByQuery regardless of whether the item
// exposes the identifier back.
func (c *Client) SearchByEAN(ctx context.Context, ean string) ([]model.CatalogCandidate, error) {
	params := url.Values{}
	params.Set("identifiers", ean)
	params.Set("identifiersType", "EAN")
	params.Set("marketplaceIds", c.config.MarketplaceID)

	items, err := c.searchCatalog(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("ean search %s: %w", ean, err)
	}

	candidates := make([]model.CatalogCandidate, 0, len(items))
	for _, item := range items {
		cand := item.toCandidate()
		cand.MatchedByQuery = true
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// SearchByKeywords queries the catalog by free text
func (c *Client) SearchByKeywords(ctx context.Context, keywords string, limit int) ([]model.CatalogCandidate, error) {
	params := url.Values{}
	params.Set("keywords", keywords)
	params.Set("marketplaceIds", c.config.MarketplaceID)
	if limit > 0 {
		params.Set("pageSize", fmt.Sprintf("%d", limit))
	}

	items, err := c.searchCatalog(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("keyword search %q: %w", keywords, err)
	}

	candidates := make([]model.CatalogCandidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, item.toCandidate())
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// FetchOffers retrieves the live offers for a catalog item
func (c *Client) FetchOffers(ctx context.Context, pid string) ([]Offer, error) {
	endpoint := fmt.Sprintf("%s/pricing/v1/items/%s/offers?marketplaceId=%s&condition=New",
		c.config.BaseURL, url.PathEscape(pid), url.QueryEscape(c.config.MarketplaceID))

	var response struct {
		Offers []struct {
			SellerID     string `json:"sellerId"`
			Condition    string `json:"condition"`
			ListingPrice struct {
				Amount decimal.Decimal `json:"amount"`
			} `json:"listingPrice"`
			Shipping struct {
				Amount decimal.Decimal `json:"amount"`
			} `json:"shipping"`
		} `json:"offers"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("fetch offers %s: %w", pid, err)
	}

	offers := make([]Offer, 0, len(response.Offers))
	for _, o := range response.Offers {
		offers = append(offers, Offer{
			SellerID:  o.SellerID,
			Price:     o.ListingPrice.Amount,
			Shipping:  o.Shipping.Amount,
			Condition: o.Condition,
		})
	}
	return offers, nil
}

type catalogItem struct {
	PID       string `json:"pid"`
	Summaries []struct {
		Title string `json:"itemName"`
		Brand string `json:"brand"`
	} `json:"summaries"`
	Identifiers []struct {
		Type  string `json:"identifierType"`
		Value string `json:"identifier"`
	} `json:"identifiers"`
}

func (i catalogItem) toCandidate() model.CatalogCandidate {
	cand := model.CatalogCandidate{PID: i.PID}
	if len(i.Summaries) > 0 {
		cand.Title = i.Summaries[0].Title
		cand.Brand = i.Summaries[0].Brand
	}
	for _, id := range i.Identifiers {
		if id.Type == "EAN" {
			cand.EANs = append(cand.EANs, id.Value)
		}
	}
	return cand
}

func (c *Client) searchCatalog(ctx context.Context, params url.Values) ([]catalogItem, error) {
	endpoint := fmt.Sprintf("%s/catalog/v1/items?%s", c.config.BaseURL, params.Encode())

	var response struct {
		Items []catalogItem `json:"items"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	return response.Items, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	reader, err := c.getReader(resp)
	if err != nil {
		return fmt.Errorf("response reader: %w", err)
	}

	if err := json.NewDecoder(reader).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) getReader(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}
