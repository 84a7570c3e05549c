package testutil

// FixedTraceIDs generates the same trace ID every time.
//
// CLI commands stamp JSON responses with a fresh UUIDv7; tests swap in
// FixedTraceIDs so rendered responses can be compared against golden files.
//
// Thread-safety: FixedTraceIDs is stateless and safe for concurrent use.
type FixedTraceIDs struct {
	id string
}

// NewFixedTraceIDs creates a fixed trace ID generator.
//
// If id is empty, NewID() returns "00000000-0000-7000-8000-000000000000".
func NewFixedTraceIDs(id string) *FixedTraceIDs {
	if id == "" {
		id = "00000000-0000-7000-8000-000000000000"
	}
	return &FixedTraceIDs{id: id}
}

// NewID returns the fixed trace ID.
func (g *FixedTraceIDs) NewID() string {
	return g.id
}
