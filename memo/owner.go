package memo

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Owner is the cache state of one owner instance. Create it with
// Registry.NewOwner; a zero Owner rejects every operation with
// ErrDetachedOwner. An Owner is safe for concurrent use and must not be
// copied.
type Owner struct {
	reg    *Registry
	id     uuid.UUID
	logger *zap.Logger
	*store
}

// ID identifies the owner in logs and snapshots.
func (o *Owner) ID() uuid.UUID { return o.id }

// Registry returns the registry the owner was created from.
func (o *Owner) Registry() *Registry { return o.reg }

// prepare resolves the method and derives the cache key for args.
func (o *Owner) prepare(op, method string, args Args) (*Descriptor, key, error) {
	if o == nil || o.reg == nil {
		return nil, key{}, fmt.Errorf("%s: %w", op, ErrDetachedOwner)
	}
	d, err := o.reg.lookup(op, method)
	if err != nil {
		return nil, key{}, err
	}
	if err := d.bind(args); err != nil {
		return nil, key{}, fmt.Errorf("%s: %w", op, err)
	}
	k, err := encode(d, args, o.reg.cfg.hasher)
	if err != nil {
		return nil, key{}, fmt.Errorf("%s: %s: %w", op, method, err)
	}
	return d, k, nil
}

// GetOrCompute returns the cached result of method(args), calling compute on
// a miss. compute runs synchronously and is never retried; if it fails or
// panics nothing is cached and the failure reaches the caller unchanged.
//
// Concurrent misses for the same key may each run compute. The first result
// stored wins and every contender returns it.
func (o *Owner) GetOrCompute(method string, args Args, compute func() (any, error)) (any, error) {
	d, k, err := o.prepare("get", method, args)
	if err != nil {
		return nil, err
	}
	if v, ok := o.get(d, k); ok {
		inc(d.counters.hits)
		return v, nil
	}
	inc(d.counters.misses)
	v, err := compute()
	if err != nil {
		return nil, err
	}
	return o.putIfAbsent(d, k, args, v), nil
}

// Peek returns the cached result of method(args) without computing it.
func (o *Owner) Peek(method string, args Args) (any, bool, error) {
	d, k, err := o.prepare("peek", method, args)
	if err != nil {
		return nil, false, err
	}
	v, ok := o.get(d, k)
	return v, ok, nil
}

// Preset caches result() as the outcome of method(args) without running the
// method. An existing entry for the same key is replaced.
func (o *Owner) Preset(method string, args Args, result func() any) error {
	d, k, err := o.prepare("preset", method, args)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("preset: %w: %s", ErrMissingResult, method)
	}
	o.put(d, k, args, result())
	inc(d.counters.presets)
	o.logger.Debug("preset memoized entry", zap.String("method", method))
	return nil
}

// Reset invalidates cached entries:
//
//   - method "" with no args clears every method of the owner;
//   - method with no args clears every entry of that method;
//   - method with args clears the single entry for those args, if any.
func (o *Owner) Reset(method string, args Args) error {
	if method == "" {
		if !args.Empty() {
			return fmt.Errorf("reset: %w", ErrArgsWithoutMethod)
		}
		return o.ResetAll()
	}

	if args.Empty() {
		if o == nil || o.reg == nil {
			return fmt.Errorf("reset: %w", ErrDetachedOwner)
		}
		d, err := o.reg.lookup("reset", method)
		if err != nil {
			return err
		}
		o.deleteMethod(d)
		d.counters.reset("method")
		o.logger.Debug("reset memoized method", zap.String("method", method))
		return nil
	}

	d, k, err := o.prepare("reset", method, args)
	if err != nil {
		return err
	}
	o.deleteOne(d, k)
	d.counters.reset("entry")
	o.logger.Debug("reset memoized entry", zap.String("method", method))
	return nil
}

// ResetAll clears every cached entry of every method on the owner.
func (o *Owner) ResetAll() error {
	if o == nil || o.reg == nil {
		return fmt.Errorf("reset: %w", ErrDetachedOwner)
	}
	o.clearAll()
	o.reg.metrics.resetAll(o.reg.ownerType)
	o.logger.Debug("reset all memoized methods")
	return nil
}

// Clear is ResetAll for callers with nothing to do about a detached owner.
func (o *Owner) Clear() {
	_ = o.ResetAll()
}

// Len returns the number of cached entries.
func (o *Owner) Len() int {
	if o == nil || o.store == nil {
		return 0
	}
	return o.store.len()
}
