package product

import (
	"regexp"
	"strings"

	"github.com/aluiziolira/shop-signals/models"
)

// productPathRe matches canonical product page URLs: https://<host>, any
// number of intermediate segments, then /products/<slug> with nothing after.
var productPathRe = regexp.MustCompile(`^https://[^/?#]+(?:/[^/?#]+)*/products/[^/?#]+$`)

// IsProductPageURL reports whether the storefront JSON fallback applies to
// the given page URL.
func IsProductPageURL(u string) bool {
	return productPathRe.MatchString(u)
}

// RawProduct is the payload of the storefront's per-product JSON resource
// (the page URL with a .js suffix).
type RawProduct struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Vendor        string       `json:"vendor"`
	Type          string       `json:"type"`
	Price         int64        `json:"price"` // cents
	Available     bool         `json:"available"`
	FeaturedImage string       `json:"featured_image"`
	Images        []string     `json:"images"`
	Variants      []RawVariant `json:"variants"`
}

// RawVariant is a purchasable variation of a storefront product.
type RawVariant struct {
	SKU     string `json:"sku"`
	Barcode string `json:"barcode"`
	Price   int64  `json:"price"` // cents
}

// FromStorefrontJSON maps the storefront product payload to the canonical
// record. Currency and price validity are never available from this source
// and stay empty.
func FromStorefrontJSON(raw *RawProduct, pageURL string) *models.Product {
	if raw == nil {
		return nil
	}

	p := &models.Product{
		Type:        raw.Type,
		Image:       firstImage(raw),
		Name:        CleanText(raw.Title),
		Description: CleanText(raw.Description),
	}
	if len(raw.Variants) > 0 {
		p.SKU = raw.Variants[0].SKU
		p.GTIN13 = raw.Variants[0].Barcode
	}
	if raw.Vendor != "" {
		p.Brand = &models.Brand{Name: raw.Vendor}
	}

	cents := raw.Price
	if len(raw.Variants) > 0 {
		cents = raw.Variants[0].Price
	}
	price := float64(cents) / 100
	availability := "OutOfStock"
	if raw.Available {
		availability = "InStock"
	}
	p.Offer = &models.Offer{
		Price:        &price,
		URL:          pageURL,
		Availability: availability,
	}
	return p
}

// firstImage returns the first usable image: the featured image followed by
// the gallery, each run through protocol normalization.
func firstImage(raw *RawProduct) string {
	images := make([]string, 0, len(raw.Images)+1)
	if raw.FeaturedImage != "" {
		images = append(images, raw.FeaturedImage)
	}
	images = append(images, raw.Images...)
	for _, image := range images {
		if normalized := secureURL(image); normalized != "" {
			return normalized
		}
	}
	return ""
}

// secureURL rewrites a protocol-relative URL to an explicit https one.
func secureURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
