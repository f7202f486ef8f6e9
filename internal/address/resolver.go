package address

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Snapshot is the published state of one resolver.
type Snapshot struct {
	Tier       Tier
	Parent     ID
	Options    []Option
	Loading    bool
	Err        error // *FetchError from the latest lookup, nil after a success
	Generation uint64
}

// Resolver keeps the option list of one tier in step with its parent selection.
//
// Every lookup is tagged with a generation number. A response is applied only
// when its generation is still the latest one issued, so the list always
// belongs to the most recent parent regardless of network completion order.
type Resolver struct {
	tier    Tier
	lookup  Lookuper
	logger  *slog.Logger
	publish func(Snapshot)

	mu         sync.Mutex
	mounted    bool
	parent     ID
	options    []Option
	loading    bool
	err        error
	generation uint64

	// pubMu is taken before mu is released so publications keep state order.
	pubMu    sync.Mutex
	inflight sync.WaitGroup
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets a custom logger for the resolver.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithPublisher registers fn to receive every published snapshot.
// fn must not call SetParent, Mount or Refresh on the same resolver.
func WithPublisher(fn func(Snapshot)) ResolverOption {
	return func(r *Resolver) {
		r.publish = fn
	}
}

// NewResolver creates an unmounted resolver for tier.
func NewResolver(tier Tier, lookup Lookuper, opts ...ResolverOption) (*Resolver, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	if lookup == nil {
		return nil, errors.New("address lookuper is required")
	}

	r := &Resolver{
		tier:    tier,
		lookup:  lookup,
		logger:  slog.Default(),
		options: []Option{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Tier returns the tier this resolver serves.
func (r *Resolver) Tier() Tier {
	return r.tier
}

// Mount performs the initial resolve. Later calls do nothing.
func (r *Resolver) Mount(ctx context.Context) {
	r.mu.Lock()
	if r.mounted {
		r.mu.Unlock()
		return
	}
	r.mounted = true
	r.resolveLocked(ctx)
	r.unlockAndPublish()
}

// SetParent records a new parent selection and re-resolves when it differs
// from the current one. The province tier ignores its parent.
func (r *Resolver) SetParent(ctx context.Context, parent ID) {
	r.mu.Lock()
	if !r.tier.HasParent() || parent == r.parent {
		r.mu.Unlock()
		return
	}
	r.parent = parent
	if !r.mounted {
		r.mu.Unlock()
		return
	}
	r.resolveLocked(ctx)
	r.unlockAndPublish()
}

// Refresh re-issues the lookup for the current parent.
func (r *Resolver) Refresh(ctx context.Context) {
	r.mu.Lock()
	if !r.mounted {
		r.mu.Unlock()
		return
	}
	r.resolveLocked(ctx)
	r.unlockAndPublish()
}

// Snapshot returns a copy of the current state.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Wait blocks until every issued lookup has been applied or discarded.
func (r *Resolver) Wait() {
	r.inflight.Wait()
}

func (r *Resolver) resolveLocked(ctx context.Context) {
	r.generation++
	gen := r.generation

	req, ok := newRequest(r.tier, r.parent)
	if !ok {
		// No parent selected: the child tier shows nothing and stays quiet.
		r.options = []Option{}
		r.loading = false
		r.err = nil
		return
	}

	r.loading = true
	r.inflight.Add(1)
	go r.fetch(ctx, gen, req)
}

func (r *Resolver) fetch(ctx context.Context, gen uint64, req Request) {
	defer r.inflight.Done()

	records, err := r.lookup.Lookup(ctx, req)

	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		r.logger.Debug("discarding stale address options",
			"tier", r.tier,
			"parent_id", req.ParentID,
			"generation", gen,
		)
		return
	}

	r.loading = false
	if err != nil {
		r.err = &FetchError{Tier: r.tier, Parent: req.ParentID, Err: err}
		r.logger.Warn("address lookup failed",
			"tier", r.tier,
			"parent_id", req.ParentID,
			"error", err,
		)
	} else {
		r.options = toOptions(records)
		r.err = nil
		r.logger.Debug("address options loaded",
			"tier", r.tier,
			"parent_id", req.ParentID,
			"count", len(r.options),
		)
	}
	r.unlockAndPublish()
}

// unlockAndPublish releases mu and hands the current state to the publisher.
func (r *Resolver) unlockAndPublish() {
	snap := r.snapshotLocked()
	r.pubMu.Lock()
	r.mu.Unlock()
	defer r.pubMu.Unlock()

	if r.publish != nil {
		r.publish(snap)
	}
}

func (r *Resolver) snapshotLocked() Snapshot {
	return Snapshot{
		Tier:       r.tier,
		Parent:     r.parent,
		Options:    slices.Clone(r.options),
		Loading:    r.loading,
		Err:        r.err,
		Generation: r.generation,
	}
}

// Resolve performs a single lookup for tier under parent.
// Child tiers without a parent resolve to an empty list without a lookup.
func Resolve(ctx context.Context, lookup Lookuper, tier Tier, parent ID) ([]Option, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}

	req, ok := newRequest(tier, parent)
	if !ok {
		return []Option{}, nil
	}

	records, err := lookup.Lookup(ctx, req)
	if err != nil {
		return nil, &FetchError{Tier: tier, Parent: req.ParentID, Err: err}
	}

	return toOptions(records), nil
}
