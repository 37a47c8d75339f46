package reminder

import (
	"net/url"
	"strings"

	"github.com/aluiziolira/shop-signals/config"
	"github.com/aluiziolira/shop-signals/models"
)

// DeriveProperties computes the reminder property set for a cart snapshot.
// An empty cart yields the all-nil quadruple, which the host interprets as
// "clear the reminder".
func DeriveProperties(cart models.Cart, cfg config.ReminderConfig, baseURL string, translate Translator) models.ReminderProperties {
	if len(cart) == 0 {
		return models.ReminderProperties{}
	}

	line := selectLine(cart, cfg.Strategy)

	dest := destinationURL(line, cfg.Destination, baseURL)
	dest = appendUTM(dest, cfg, line.ProductTitle)
	if cfg.DiscountCode != "" {
		dest = discountURL(dest, cfg.DiscountCode)
	}

	message := cfg.Message
	if message == "" {
		message = translate(DefaultMessage)
	}

	props := models.ReminderProperties{
		Message: &message,
		URL:     &dest,
	}
	if line.ProductTitle != "" {
		title := line.ProductTitle
		props.ProductName = &title
	}
	if !cfg.DisableImage && line.Image != "" {
		image := line.Image
		props.PictureURL = &image
	}
	return props
}

// selectLine picks one cart line by strategy. Price ties go to the
// later-scanned line. "latest" relies on the platform ordering the cart
// most-recently-added first.
func selectLine(cart models.Cart, strategy string) models.CartLine {
	switch strategy {
	case config.StrategyMostExpensive:
		best := cart[0]
		for _, line := range cart[1:] {
			if line.FinalLinePrice >= best.FinalLinePrice {
				best = line
			}
		}
		return best
	case config.StrategyLeastExpensive:
		best := cart[0]
		for _, line := range cart[1:] {
			if line.FinalLinePrice <= best.FinalLinePrice {
				best = line
			}
		}
		return best
	default:
		return cart[0]
	}
}

func destinationURL(line models.CartLine, destination, baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	switch destination {
	case config.DestinationProduct:
		return resolveURL(line.URL, base)
	case config.DestinationHomepage:
		return base + "/"
	case config.DestinationCheckout:
		return base + "/checkout"
	default:
		return base + "/cart"
	}
}

func resolveURL(u, base string) string {
	if strings.HasPrefix(u, "/") {
		return base + u
	}
	return u
}

// appendUTM adds marketing attribution parameters built from the configured
// non-empty fields, joining onto any existing query string. Nothing is
// appended when no parameter was produced.
func appendUTM(dest string, cfg config.ReminderConfig, productTitle string) string {
	params := url.Values{}
	if cfg.UTMSource != "" {
		params.Set("utm_source", cfg.UTMSource)
	}
	if cfg.UTMMedium != "" {
		params.Set("utm_medium", cfg.UTMMedium)
	}
	if cfg.UTMCampaign != "" {
		params.Set("utm_campaign", cfg.UTMCampaign)
	}
	if cfg.UTMContent == "product-name" && productTitle != "" {
		params.Set("utm_content", productTitle)
	}
	if len(params) == 0 {
		return dest
	}

	separator := "?"
	if strings.Contains(dest, "?") {
		separator = "&"
	}
	return dest + separator + params.Encode()
}

// discountURL rewrites the destination to the discount redemption endpoint.
// The redirect parameter carries only the path portion of the destination;
// the destination's own query string is re-appended after it rather than
// nested inside.
func discountURL(dest, code string) string {
	parsed, err := url.Parse(dest)
	if err != nil {
		return dest
	}

	out := "/discount/" + url.PathEscape(code) + "?redirect=" + url.QueryEscape(parsed.Path)
	if parsed.RawQuery != "" {
		out += "&" + parsed.RawQuery
	}
	if parsed.Scheme != "" && parsed.Host != "" {
		out = parsed.Scheme + "://" + parsed.Host + out
	}
	return out
}
