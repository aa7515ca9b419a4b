package model

// Limits applied to every mapping. Validated at the HTTP boundary and
// re-checked by the allocator.
const (
	MaxShortIDLength     = 50
	MaxOriginalURLLength = 2048
)

// URL represents one short-to-long URL binding with owner information.
// A binding is created exactly once and never mutated afterwards.
type URL struct {
	ShortID     string
	OriginalURL string
	OwnerID     string
}

// UserURL is the external representation returned in API responses.
type UserURL struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
}
