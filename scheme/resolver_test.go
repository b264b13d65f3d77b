package scheme

import (
	"context"
	"errors"
	"testing"

	"github.com/janmitra/yojana/dbopen"
)

type fakeRegistry struct {
	details *Details
	err     error
	calls   int
}

func (f *fakeRegistry) Find(_ context.Context, _ string) (*Details, error) {
	f.calls++
	return f.details, f.err
}

type fakePortal struct {
	raw   map[string]any
	err   error
	calls int
}

func (f *fakePortal) Find(_ context.Context, _ string) (map[string]any, error) {
	f.calls++
	return f.raw, f.err
}

func newResolverFixture(t *testing.T) (*Resolver, *Store, *fakeRegistry, *fakePortal) {
	t.Helper()
	store := NewStore(dbopen.OpenMemory(t, dbopen.WithSchema(Schema)))
	reg := &fakeRegistry{}
	portal := &fakePortal{}
	return NewResolver(store, reg, portal, nil), store, reg, portal
}

func TestResolve_LocalHitStopsThere(t *testing.T) {
	// WHAT: A local hit never reaches the registry or portal and writes
	// nothing back.
	r, store, reg, portal := newResolverFixture(t)
	ctx := context.Background()

	if err := store.Insert(ctx, &Record{Name: "PMAY", Description: "Housing"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	d, err := r.Resolve(ctx, "pmay")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d == nil || d.Name != "PMAY" || d.Description != "Housing" {
		t.Errorf("details: %+v", d)
	}
	if reg.calls != 0 || portal.calls != 0 {
		t.Errorf("external tiers called: registry=%d portal=%d", reg.calls, portal.calls)
	}

	list, _ := store.List(ctx)
	if len(list) != 1 {
		t.Errorf("local hit must not persist, rows=%d", len(list))
	}
}

func TestResolve_RegistryHitPersistsAndSkipsPortal(t *testing.T) {
	// WHAT: On a local miss the registry result is returned, written through
	// to the store, and the portal is never queried.
	r, store, reg, portal := newResolverFixture(t)
	reg.details = &Details{Name: "PMAY", Description: "Housing for all"}
	ctx := context.Background()

	d, err := r.Resolve(ctx, "PMAY")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d == nil || d.Description != "Housing for all" {
		t.Errorf("details: %+v", d)
	}
	if portal.calls != 0 {
		t.Errorf("portal called %d times", portal.calls)
	}

	rec, err := store.FindLocal(ctx, "PMAY")
	if err != nil || rec == nil {
		t.Fatalf("store should gain the record: %+v, %v", rec, err)
	}
	list, _ := store.List(ctx)
	if len(list) != 1 {
		t.Errorf("rows: %d, want exactly 1", len(list))
	}
}

func TestResolve_PortalFallback(t *testing.T) {
	// WHAT: Registry empty set falls through to the portal; the raw payload
	// is passed through and a derived record is persisted.
	r, store, reg, portal := newResolverFixture(t)
	portal.raw = map[string]any{"description": "Listing text", "category": "41"}
	ctx := context.Background()

	d, err := r.Resolve(ctx, "Ujjwala")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d == nil || d.Description != "Listing text" {
		t.Errorf("details: %+v", d)
	}
	if d.Raw["category"] != "41" {
		t.Errorf("raw payload not passed through: %+v", d.Raw)
	}
	if reg.calls != 1 {
		t.Errorf("registry calls: %d", reg.calls)
	}

	rec, _ := store.FindLocal(ctx, "Ujjwala")
	if rec == nil || rec.Description != "Listing text" {
		t.Errorf("persisted record: %+v", rec)
	}
}

func TestResolve_AllTiersMiss(t *testing.T) {
	r, _, reg, portal := newResolverFixture(t)
	d, err := r.Resolve(context.Background(), "unknown scheme")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d != nil {
		t.Errorf("details: %+v", d)
	}
	if reg.calls != 1 || portal.calls != 1 {
		t.Errorf("tier calls: registry=%d portal=%d", reg.calls, portal.calls)
	}
}

func TestResolve_BlankNameShortCircuits(t *testing.T) {
	// WHAT: Empty or whitespace-only names resolve to absent without
	// touching any tier.
	r, _, reg, portal := newResolverFixture(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		d, err := r.Resolve(context.Background(), name)
		if err != nil || d != nil {
			t.Errorf("%q: %+v, %v", name, d, err)
		}
	}
	if reg.calls != 0 || portal.calls != 0 {
		t.Errorf("tiers touched: registry=%d portal=%d", reg.calls, portal.calls)
	}
}

func TestResolve_RegistryErrorEndsResolution(t *testing.T) {
	// WHY: A tier error is unrecoverable for this request; later tiers are
	// not attempted and the caller degrades to "no scheme context".
	r, _, _, portal := newResolverFixture(t)
	reg := &fakeRegistry{err: errors.New("registry down")}
	r.registry = reg

	d, err := r.Resolve(context.Background(), "PMAY")
	if err == nil {
		t.Error("expected error")
	}
	if d != nil {
		t.Errorf("details: %+v", d)
	}
	if portal.calls != 0 {
		t.Errorf("portal called after registry error: %d", portal.calls)
	}
}
