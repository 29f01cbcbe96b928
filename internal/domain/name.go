package domain

// ElfName is the pipeline result. Safe reports provenance: false means the
// generated candidate failed safety validation and a pre-vetted fallback
// name was substituted in its place.
type ElfName struct {
	Name       string     `json:"name"`
	Safe       bool       `json:"is_safe"`
	Seed       Seed       `json:"seed"`
	StyleHints StyleHints `json:"style_hints"`
}
