// Package product reconciles two heterogeneous product data sources into one
// canonical record: the page's embedded structured data and the storefront's
// per-product JSON resource.
package product

import (
	"context"
	"log/slog"

	"github.com/aluiziolira/shop-signals/models"
)

// Fetcher retrieves the storefront's per-product JSON resource for a product
// page URL. It returns nil without error when the resource is absent.
type Fetcher interface {
	FetchProduct(ctx context.Context, pageURL string) (*RawProduct, error)
}

// Normalizer extracts the current page's product. The structured-data source
// is tried first: it needs no network round trip and is the only source that
// carries currency information. The storefront JSON fallback only applies on
// product page URLs. Both sources map to the same schema, so callers never
// learn which one produced the record.
type Normalizer struct {
	page    PageSource
	fetcher Fetcher
}

// NewNormalizer builds a normalizer over a page source and a storefront
// fetcher.
func NewNormalizer(page PageSource, fetcher Fetcher) *Normalizer {
	return &Normalizer{page: page, fetcher: fetcher}
}

// Extract returns the current product, or nil when the page holds none. No
// transport or parse failure is fatal: each source degrades to nil and the
// next one is tried.
func (n *Normalizer) Extract(ctx context.Context) *models.Product {
	blocks, err := n.page.StructuredData(ctx)
	if err != nil {
		slog.Debug("structured data unavailable", slog.Any("error", err))
	} else if p := FromStructuredData(blocks); p != nil {
		return p
	}

	pageURL := n.page.URL()
	if !IsProductPageURL(pageURL) {
		return nil
	}
	if n.fetcher == nil {
		return nil
	}
	raw, err := n.fetcher.FetchProduct(ctx, pageURL)
	if err != nil {
		slog.Debug("storefront product fetch failed",
			slog.String("url", pageURL),
			slog.Any("error", err),
		)
		return nil
	}
	return FromStorefrontJSON(raw, pageURL)
}
