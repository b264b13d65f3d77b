// Package scheme resolves government welfare scheme names into scheme
// details.
//
// Resolution is a strict tiered fallback: the local SQLite store, then an
// external scheme registry, then a government listing portal. Records
// discovered externally are written through to the local store so future
// lookups hit locally. The store is a warming cache for external lookups,
// not a canonical authority: names are not unique and the first
// case-insensitive substring match wins.
package scheme

// Record is a persisted scheme row. Created by administrators or by the
// resolver on first external discovery; never deleted by the pipeline.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Details     string `json:"details,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// Details is the resolver's result: the fields the answer pipeline reads,
// plus the provider-defined portal payload passed through opaquely.
type Details struct {
	Name            string         `json:"name,omitempty"`
	Description     string         `json:"description,omitempty"`
	Details         string         `json:"details,omitempty"`
	ApplicationLink string         `json:"applicationLink,omitempty"`
	Raw             map[string]any `json:"raw,omitempty"`
}
