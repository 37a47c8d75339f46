// Package models defines the data structures shared across the signal
// pipelines.
package models

// Product is the canonical record produced by product extraction. The same
// schema is produced regardless of which source (structured data or
// storefront JSON) yielded it; consumers never branch on provenance.
type Product struct {
	Type        string `json:"type,omitempty"`
	Image       string `json:"image,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	SKU         string `json:"sku,omitempty"`
	GTIN13      string `json:"gtin13,omitempty"`
	Offer       *Offer `json:"offer,omitempty"`
	Brand       *Brand `json:"brand,omitempty"`
}

// Offer carries pricing details for a product. Price is expressed in major
// currency units (dollars, not cents). Condition and availability hold bare
// schema.org tokens with the URI prefix stripped.
type Offer struct {
	Type            string   `json:"type,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	PriceCurrency   string   `json:"priceCurrency,omitempty"`
	PriceValidUntil string   `json:"priceValidUntil,omitempty"`
	URL             string   `json:"url,omitempty"`
	ItemCondition   string   `json:"itemCondition,omitempty"`
	Availability    string   `json:"availability,omitempty"`
}

// Brand identifies the product vendor.
type Brand struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}
