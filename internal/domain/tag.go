package domain

// Tag is a global, shared label. Name is the canonical normalised form and
// is unique across the whole system; tags are never owned by a user and are
// never deleted once created.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
