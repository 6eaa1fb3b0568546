package memo

import (
	"fmt"
	"go/token"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry records which methods of one owner type are memoized, together
// with their shapes. It is shared by every Owner of that type.
//
// Usage:
//
//	var users = memo.NewRegistry("UserDirectory")
//	var byID = users.MustRegister("ByID", []memo.Param{memo.Req("id")}, memo.Public)
//
//	func NewUserDirectory() *UserDirectory {
//	    return &UserDirectory{memo: users.NewOwner()}
//	}
type Registry struct {
	ownerType string
	cfg       config
	metrics   *metrics
	logger    *zap.Logger

	mu      sync.RWMutex
	methods map[string]*Descriptor
}

// NewRegistry creates an empty registry for ownerType. It panics if metrics
// are requested and the collectors cannot be registered.
func NewRegistry(ownerType string, opts ...Option) *Registry {
	cfg := newConfig(opts)
	m, err := newMetrics(cfg.registerer)
	if err != nil {
		panic(fmt.Sprintf("memo: registering metrics for %s: %v", ownerType, err))
	}
	return &Registry{
		ownerType: ownerType,
		cfg:       cfg,
		metrics:   m,
		logger:    cfg.logger.With(zap.String("owner_type", ownerType)),
		methods:   make(map[string]*Descriptor),
	}
}

// OwnerType returns the name the registry was created with.
func (r *Registry) OwnerType() string { return r.ownerType }

// Register enables memoization for method name. The parameter list is
// classified once, here; calls never re-inspect it.
func (r *Registry) Register(name string, params []Param, vis Visibility) (*Descriptor, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	for _, p := range params {
		if p.Kind == Block {
			return nil, fmt.Errorf("%w: %s.%s(&%s)", ErrBlockParameter, r.ownerType, name, p.Name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[name]; ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrAlreadyRegistered, r.ownerType, name)
	}
	d := newDescriptor(name, params, vis)
	d.counters = r.metrics.forMethod(r.ownerType, name)
	r.methods[name] = d

	r.logger.Debug("registered memoized method",
		zap.String("method", name),
		zap.Stringer("shape", d.shape),
		zap.Stringer("visibility", vis),
		zap.String("params", formatParams(params)),
	)
	return d, nil
}

// MustRegister is like Register but panics on error. It suits package-level
// variable initialization.
func (r *Registry) MustRegister(name string, params []Param, vis Visibility) *Descriptor {
	d, err := r.Register(name, params, vis)
	if err != nil {
		panic(err)
	}
	return d
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.methods[name]
	return d, ok
}

// Descriptors returns every registered descriptor ordered by name.
func (r *Registry) Descriptors() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := slices.Sorted(maps.Keys(r.methods))
	out := make([]*Descriptor, len(names))
	for i, name := range names {
		out[i] = r.methods[name]
	}
	return out
}

// NewOwner creates the cache state for one owner instance. The integration
// layer must call it when the owner is constructed, before any memoized
// method can run.
func (r *Registry) NewOwner() *Owner {
	id := uuid.New()
	r.logger.Debug("created owner cache state", zap.Stringer("owner_id", id))
	return &Owner{
		reg:    r,
		id:     id,
		store:  newStore(),
		logger: r.logger.With(zap.Stringer("owner_id", id)),
	}
}

// lookup resolves a method for an owner operation.
func (r *Registry) lookup(op, name string) (*Descriptor, error) {
	if err := checkName(name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	d, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s.%s", op, ErrUnregisteredMethod, r.ownerType, name)
	}
	return d, nil
}

func checkName(name string) error {
	if !token.IsIdentifier(name) {
		return fmt.Errorf("%w: %q", ErrInvalidMethodName, name)
	}
	return nil
}

func formatParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Kind.String() + " " + p.Name
	}
	return strings.Join(parts, ", ")
}
