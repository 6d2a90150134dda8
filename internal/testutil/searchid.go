package testutil

// FixedSearchID generates the same search id every time.
//
// Unlike engine.FixedGenerator which returns ids in sequence, this generator
// always returns the same id, so every search of a golden test logs and
// reports identical output.
//
// Thread-safety: FixedSearchID is stateless and safe for concurrent use.
type FixedSearchID struct {
	id string
}

// NewFixedSearchID creates a fixed search id generator.
//
// If id is empty, Generate() returns "test-search-default".
func NewFixedSearchID(id string) *FixedSearchID {
	if id == "" {
		id = "test-search-default"
	}
	return &FixedSearchID{id: id}
}

// Generate returns the fixed id.
//
// Implements engine.SearchIDGenerator interface.
func (g *FixedSearchID) Generate() string {
	return g.id
}
