package product

import "testing"

func TestIsProductPageURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "plain product page", url: "https://shop.example.com/products/desk-lamp", want: true},
		{name: "collection-scoped product page", url: "https://shop.example.com/collections/sale/products/desk-lamp", want: true},
		{name: "trailing segment", url: "https://shop.example.com/products/desk-lamp/reviews", want: false},
		{name: "cart page", url: "https://shop.example.com/cart", want: false},
		{name: "insecure scheme", url: "http://shop.example.com/products/desk-lamp", want: false},
		{name: "query string", url: "https://shop.example.com/products/desk-lamp?variant=1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProductPageURL(tt.url); got != tt.want {
				t.Fatalf("IsProductPageURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestFromStorefrontJSON(t *testing.T) {
	raw := &RawProduct{
		Title:         "Desk <em>Lamp</em>",
		Description:   "<p>A lamp.</p>",
		Vendor:        "Lumen Co",
		Type:          "Lighting",
		Price:         2599,
		Available:     true,
		FeaturedImage: "//cdn.example.com/featured.jpg",
		Images:        []string{"//cdn.example.com/gallery-1.jpg"},
		Variants: []RawVariant{
			{SKU: "LAMP-1", Barcode: "1234567890123", Price: 1999},
			{SKU: "LAMP-2", Price: 2999},
		},
	}
	pageURL := "https://shop.example.com/products/desk-lamp"

	p := FromStorefrontJSON(raw, pageURL)
	if p == nil {
		t.Fatal("expected a product")
	}
	if p.Name != "Desk Lamp" {
		t.Fatalf("name = %q, want %q", p.Name, "Desk Lamp")
	}
	if p.Description != "A lamp." {
		t.Fatalf("description = %q, want %q", p.Description, "A lamp.")
	}
	if p.Image != "https://cdn.example.com/featured.jpg" {
		t.Fatalf("image = %q, want the secured featured image", p.Image)
	}
	if p.SKU != "LAMP-1" || p.GTIN13 != "1234567890123" {
		t.Fatalf("sku/gtin13 = %q/%q, want first variant's", p.SKU, p.GTIN13)
	}
	if p.Brand == nil || p.Brand.Name != "Lumen Co" {
		t.Fatalf("brand = %+v, want vendor name", p.Brand)
	}
	if p.Offer == nil {
		t.Fatal("expected an offer")
	}
	if p.Offer.Price == nil || *p.Offer.Price != 19.99 {
		t.Fatalf("price = %v, want first variant's 19.99", p.Offer.Price)
	}
	if p.Offer.PriceCurrency != "" || p.Offer.PriceValidUntil != "" {
		t.Fatal("currency and validity are never available from this source")
	}
	if p.Offer.Availability != "InStock" {
		t.Fatalf("availability = %q, want InStock", p.Offer.Availability)
	}
	if p.Offer.URL != pageURL {
		t.Fatalf("offer url = %q, want %q", p.Offer.URL, pageURL)
	}
}

func TestFromStorefrontJSONNoVariants(t *testing.T) {
	raw := &RawProduct{
		Title:     "Bare Product",
		Price:     500,
		Available: false,
		Images:    []string{"https://cdn.example.com/only.jpg"},
	}

	p := FromStorefrontJSON(raw, "https://shop.example.com/products/bare")
	if p == nil || p.Offer == nil {
		t.Fatal("expected a product with an offer")
	}
	if p.Offer.Price == nil || *p.Offer.Price != 5.00 {
		t.Fatalf("price = %v, want top-level 5.00", p.Offer.Price)
	}
	if p.Offer.Availability != "OutOfStock" {
		t.Fatalf("availability = %q, want OutOfStock", p.Offer.Availability)
	}
	if p.Image != "https://cdn.example.com/only.jpg" {
		t.Fatalf("image = %q, want the gallery image untouched", p.Image)
	}
	if p.SKU != "" || p.Brand != nil {
		t.Fatal("no variant sku or vendor expected")
	}
}

func TestFromStorefrontJSONNilPayload(t *testing.T) {
	if p := FromStorefrontJSON(nil, "https://shop.example.com/products/x"); p != nil {
		t.Fatalf("expected nil, got %+v", p)
	}
}
