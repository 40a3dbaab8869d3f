package catalog

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
)

// Loader produces a fresh snapshot from some backing store (JSON file, S3
// object, Postgres tables).
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Provider hands out the current snapshot and swaps in new ones atomically,
// so every in-flight plan resolves against one consistent dataset view.
type Provider struct {
	loader  Loader
	current atomic.Pointer[Snapshot]
}

func NewProvider(loader Loader) *Provider {
	return &Provider{loader: loader}
}

// Current returns the active snapshot, or nil before the first Refresh.
func (p *Provider) Current() *Snapshot {
	return p.current.Load()
}

// CurrentVersion reports the active snapshot version, false before the
// first Refresh.
func (p *Provider) CurrentVersion() (string, bool) {
	if s := p.current.Load(); s != nil {
		return s.Version(), true
	}
	return "", false
}

// Refresh loads a new snapshot and swaps it in. The previous snapshot stays
// valid for callers that already hold it.
func (p *Provider) Refresh(ctx context.Context) (*Snapshot, error) {
	snap, err := p.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog refresh: %w", err)
	}

	prev := p.current.Swap(snap)
	if prev != nil && prev.Version() != snap.Version() {
		log.Printf("catalog: snapshot swapped %s -> %s (%d recipes)", prev.Version(), snap.Version(), snap.RecipeCount())
	} else {
		log.Printf("catalog: snapshot loaded %s (%d recipes)", snap.Version(), snap.RecipeCount())
	}
	return snap, nil
}
