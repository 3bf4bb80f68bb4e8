package entity

import "time"

// Place is a user-owned point-of-interest record.
// CreatorID references exactly one User; the owning user also carries
// the place id in its owned-place set (user_places), and the two are
// only ever written together inside one transaction.
type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatorID   string    `json:"creator"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
