package user

import "time"

// Profile is the application-owned record of display and business
// attributes, keyed by the identity provider's user id. The link is
// by convention only; no cross-store transaction ever enforces it.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	IsPremium bool      `json:"is_premium"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
