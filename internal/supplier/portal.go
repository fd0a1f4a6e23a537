package supplier

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"github.com/wyzinc/marketsync/internal/model"
)

// PortalClient scrapes the supplier's web portal for feeds that have
// no API export. One page per request, paginated by query parameter.
type PortalClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewPortalClient creates a portal scraper for the given catalog URL
func NewPortalClient(baseURL string) *PortalClient {
	return &PortalClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// FetchPage downloads and parses one catalog page. Returns the
// records found; an empty slice means the pagination is exhausted.
func (p *PortalClient) FetchPage(ctx context.Context, page int) ([]model.SupplierRecord, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s?page=%d", p.baseURL, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page %d: HTTP %d", page, resp.StatusCode)
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("response reader: %w", err)
	}
	return parseCatalogPage(reader)
}

// FetchAll walks the pagination until an empty page
func (p *PortalClient) FetchAll(ctx context.Context) ([]model.SupplierRecord, error) {
	var all []model.SupplierRecord
	for page := 1; ; page++ {
		records, err := p.FetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			break
		}
		all = append(all, records...)
	}
	return all, nil
}

func parseCatalogPage(r io.Reader) ([]model.SupplierRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse catalog page: %w", err)
	}

	var records []model.SupplierRecord
	doc.Find(".product-item, tr.product-row").Each(func(_ int, s *goquery.Selection) {
		raw := map[string]string{
			"sku":   firstText(s, ".product-sku, td.sku"),
			"ean":   firstText(s, ".product-ean, td.ean"),
			"brand": firstText(s, ".product-brand, td.brand"),
			"name":  firstText(s, ".product-name, td.name, .product-title"),
			"cost":  firstText(s, ".product-price, td.price"),
			"stock": firstText(s, ".product-stock, td.stock"),
		}
		if v, ok := s.Attr("data-sku"); ok && raw["sku"] == "" {
			raw["sku"] = v
		}
		if v, ok := s.Attr("data-ean"); ok && raw["ean"] == "" {
			raw["ean"] = v
		}
		rec := Normalize(raw)
		if rec.SKU != "" {
			records = append(records, rec)
		}
	})
	return records, nil
}

func firstText(s *goquery.Selection, selector string) string {
	return s.Find(selector).First().Text()
}

func decodeBody(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}
