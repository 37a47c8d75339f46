package product

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aluiziolira/shop-signals/models"
)

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// FromStructuredData scans structured-data blocks and maps the first Product
// item found to the canonical record. Blocks frequently embed literal line
// breaks inside string values, which some emitters produce and strict JSON
// parsers reject, so breaks are normalized to spaces before parsing. Parse
// failures skip the block; nothing is ever returned as an error.
func FromStructuredData(blocks []string) *models.Product {
	for _, block := range blocks {
		var parsed any
		if err := json.Unmarshal([]byte(lineBreaks.Replace(block)), &parsed); err != nil {
			slog.Warn("structured data block parse failed", slog.Any("error", err))
			continue
		}
		for _, item := range documentItems(parsed) {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if stripSchemaPrefix(stringField(entry, "@type")) != "Product" {
				continue
			}
			return productFromItem(entry)
		}
	}
	return nil
}

// documentItems treats a block holding a single item and a block holding a
// sequence of items uniformly.
func documentItems(parsed any) []any {
	switch v := parsed.(type) {
	case []any:
		return v
	case map[string]any:
		return []any{v}
	default:
		return nil
	}
}

func productFromItem(item map[string]any) *models.Product {
	p := &models.Product{
		Type:        stripSchemaPrefix(stringField(item, "@type")),
		Image:       imageFrom(item["image"]),
		Name:        CleanText(stringField(item, "name")),
		Description: CleanText(stringField(item, "description")),
		SKU:         stringField(item, "sku"),
		GTIN13:      stringField(item, "gtin13"),
	}
	if offer := firstOffer(item["offers"]); offer != nil {
		p.Offer = &models.Offer{
			Type:            stripSchemaPrefix(stringField(offer, "@type")),
			Price:           parsePrice(offer["price"]),
			PriceCurrency:   stringField(offer, "priceCurrency"),
			PriceValidUntil: stringField(offer, "priceValidUntil"),
			URL:             stringField(offer, "url"),
			ItemCondition:   stripSchemaPrefix(stringField(offer, "itemCondition")),
			Availability:    stripSchemaPrefix(stringField(offer, "availability")),
		}
	}
	if brand, ok := item["brand"].(map[string]any); ok {
		p.Brand = &models.Brand{
			Name: stringField(brand, "name"),
			Type: stripSchemaPrefix(stringField(brand, "@type")),
		}
	}
	return p
}

// firstOffer flattens an offers field that may be a single object or an
// array by taking the first entry.
func firstOffer(v any) map[string]any {
	switch offers := v.(type) {
	case map[string]any:
		return offers
	case []any:
		if len(offers) == 0 {
			return nil
		}
		first, _ := offers[0].(map[string]any)
		return first
	default:
		return nil
	}
}

// parsePrice accepts a JSON number or numeric string. A value that does not
// parse as a number yields a nil price rather than an error.
func parsePrice(v any) *float64 {
	switch price := v.(type) {
	case float64:
		return &price
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

// imageFrom accepts an image given as a bare string or as an array of
// strings (first element wins). Anything else yields no image.
func imageFrom(v any) string {
	switch image := v.(type) {
	case string:
		return image
	case []any:
		if len(image) == 0 {
			return ""
		}
		first, _ := image[0].(string)
		return first
	default:
		return ""
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stripSchemaPrefix(token string) string {
	token = strings.TrimPrefix(token, "https://schema.org/")
	return strings.TrimPrefix(token, "http://schema.org/")
}
