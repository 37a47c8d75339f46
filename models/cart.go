package models

// CartLine is a single entry of the storefront cart resource.
type CartLine struct {
	ProductTitle   string `json:"product_title"`
	FinalLinePrice int64  `json:"final_line_price"` // cents
	URL            string `json:"url"`
	Image          string `json:"image,omitempty"`
}

// Cart is ordered most-recently-added first: index 0 is the latest addition.
// This is a platform convention asserted by the storefront cart resource,
// not something verified here.
type Cart []CartLine

// ReminderProperties is the flat property set published for the cart
// reminder. An all-nil value is meaningful: it tells the host to clear any
// previously shown reminder, and is emitted whenever the cart is empty.
type ReminderProperties struct {
	ProductName *string
	Message     *string
	URL         *string
	PictureURL  *string
}

// Map flattens the properties for publication. Unset fields are kept as
// explicit nils so the host can distinguish "clear" from "unchanged".
func (p ReminderProperties) Map() map[string]any {
	out := make(map[string]any, 4)
	out["productName"] = strOrNil(p.ProductName)
	out["message"] = strOrNil(p.Message)
	out["url"] = strOrNil(p.URL)
	out["pictureUrl"] = strOrNil(p.PictureURL)
	return out
}

func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
