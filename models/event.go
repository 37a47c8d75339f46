package models

// Event is the envelope handed to the sink's TrackEvent operation.
type Event struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Product *Product `json:"product,omitempty"`
	URL     string   `json:"url,omitempty"`
}
