package domain

import "time"

// Banner represents a promotional banner on the marketplace page. Countdown,
// when set, is the moment the promotion ends.
type Banner struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	ImageURL   string     `json:"image_url"`
	LinkURL    string     `json:"link_url,omitempty"`
	Active     bool       `json:"active"`
	CategoryID *string    `json:"category_id,omitempty"`
	Countdown  *time.Time `json:"countdown,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsLive reports whether the banner should be shown at the given time: it
// must be active and its countdown, if any, must not have elapsed.
func (b *Banner) IsLive(now time.Time) bool {
	if !b.Active {
		return false
	}
	if b.Countdown != nil && now.After(*b.Countdown) {
		return false
	}
	return true
}

// Category groups products and banners on the marketplace page.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
