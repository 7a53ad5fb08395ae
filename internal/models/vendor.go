package models

// NormalizedVendor carries the three tiers produced by the vendor pipeline:
// the untouched input, the noise-stripped canonical vendor, and the display name.
type NormalizedVendor struct {
	Original   string `json:"original" yaml:"original"`
	Vendor     string `json:"vendor" yaml:"vendor"`
	Normalized string `json:"normalized" yaml:"normalized"`
}
