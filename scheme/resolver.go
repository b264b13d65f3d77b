package scheme

import (
	"context"
	"log/slog"
	"strings"
)

// LocalStore is the subset of Store the resolver needs.
type LocalStore interface {
	FindLocal(ctx context.Context, nameQuery string) (*Record, error)
	Insert(ctx context.Context, rec *Record) error
}

// RegistryClient looks a scheme up in the external catalog.
type RegistryClient interface {
	Find(ctx context.Context, name string) (*Details, error)
}

// PortalClient looks a scheme up in the government listing service.
type PortalClient interface {
	Find(ctx context.Context, name string) (map[string]any, error)
}

// Resolver orders the three tiers: local store, external registry,
// government portal. Each tier runs once, and only if the previous one
// yielded nothing.
type Resolver struct {
	store    LocalStore
	registry RegistryClient
	portal   PortalClient
	logger   *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(store LocalStore, registry RegistryClient, portal PortalClient, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, registry: registry, portal: portal, logger: logger}
}

// Resolve maps a scheme name to details, or (nil, nil) when no tier has it.
// Absence is not an error: callers proceed without scheme context. A blank
// name short-circuits without touching any tier. External discoveries are
// persisted write-through; a failed write is logged and never affects the
// returned details.
func (r *Resolver) Resolve(ctx context.Context, schemeName string) (*Details, error) {
	name := strings.TrimSpace(schemeName)
	if name == "" {
		return nil, nil
	}

	// Tier 1: local store. Already durable, so no persistence write.
	rec, err := r.store.FindLocal(ctx, name)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return &Details{
			Name:        rec.Name,
			Description: rec.Description,
			Details:     rec.Details,
		}, nil
	}

	// Tier 2: external registry.
	details, err := r.registry.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	if details != nil {
		r.persist(ctx, &Record{Name: details.Name, Description: details.Description})
		return details, nil
	}

	// Tier 3: government portal, only after an empty registry result.
	raw, err := r.portal.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		description, _ := raw["description"].(string)
		r.persist(ctx, &Record{Name: name, Description: description})
		return &Details{
			Name:        name,
			Description: description,
			Raw:         raw,
		}, nil
	}

	return nil, nil
}

// persist is best-effort write-through population of the local store.
func (r *Resolver) persist(ctx context.Context, rec *Record) {
	if err := r.store.Insert(ctx, rec); err != nil {
		r.logger.Warn("scheme persist failed", "name", rec.Name, "error", err)
	}
}
