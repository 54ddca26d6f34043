package models

// Book is a catalogue entry owned by exactly one user.
//
// Books are created by the acquisition workflow and deleted by their
// owner; they are never updated in place.
type Book struct {
	// ID is the unique identifier for the book (UUID format).
	ID string `json:"id"`

	// UserID is the owning user's ID.
	UserID string `json:"user_id"`

	// ISBN may be empty if the book was added without an API match.
	ISBN string `json:"isbn,omitempty"`

	// Title is always set; the lookup client substitutes a placeholder
	// when the external source omits it.
	Title string `json:"title"`

	// Authors is a comma-joined list, empty when unknown.
	Authors string `json:"authors,omitempty"`

	// PageCount is nil when the external source has no page count.
	PageCount *int `json:"page_count,omitempty"`

	// AverageRating is nil when the external source has no rating.
	AverageRating *float64 `json:"average_rating,omitempty"`

	// ThumbnailURL is nil when no cover image link was present.
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`

	// CreatedAt is the Unix timestamp when the entry was added.
	CreatedAt int64 `json:"created_at"`
}
