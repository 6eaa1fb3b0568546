package memo

import (
	"fmt"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Visibility is the access level the integration layer must preserve when it
// wraps a memoized method. Caching ignores it.
type Visibility uint8

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// Descriptor is the immutable registration record of one memoized method.
type Descriptor struct {
	name       string
	shape      Shape
	params     []Param
	visibility Visibility

	// derived once at registration for argument binding
	numRequired int
	numOptional int
	hasRest     bool
	hasKeyRest  bool
	keywords    map[string]Kind

	counters counters
}

func newDescriptor(name string, params []Param, vis Visibility) *Descriptor {
	d := &Descriptor{
		name:       name,
		shape:      Classify(params),
		params:     slices.Clone(params),
		visibility: vis,
		keywords:   make(map[string]Kind),
	}
	for _, p := range params {
		switch p.Kind {
		case Required:
			d.numRequired++
		case Optional:
			d.numOptional++
		case Rest:
			d.hasRest = true
		case KeyRequired, KeyOptional:
			d.keywords[p.Name] = p.Kind
		case KeyRest:
			d.hasKeyRest = true
		}
	}
	return d
}

func (d *Descriptor) Name() string           { return d.name }
func (d *Descriptor) Shape() Shape           { return d.shape }
func (d *Descriptor) Visibility() Visibility { return d.visibility }

// Params returns a copy of the declared parameter list.
func (d *Descriptor) Params() []Param { return slices.Clone(d.params) }

// bind checks that args can be passed to the method as declared.
func (d *Descriptor) bind(args Args) error {
	n := len(args.Positional)
	if n < d.numRequired || (!d.hasRest && n > d.numRequired+d.numOptional) {
		return fmt.Errorf("%w: %s takes %s positional arguments, got %d",
			ErrArgumentMismatch, d.name, d.positionalArity(), n)
	}
	for name := range args.Keyword {
		if _, ok := d.keywords[name]; !ok && !d.hasKeyRest {
			return fmt.Errorf("%w: %s has no keyword %q", ErrArgumentMismatch, d.name, name)
		}
	}
	for name, kind := range d.keywords {
		if kind != KeyRequired {
			continue
		}
		if _, ok := args.Keyword[name]; !ok {
			return fmt.Errorf("%w: %s is missing keyword %q", ErrArgumentMismatch, d.name, name)
		}
	}
	return nil
}

func (d *Descriptor) positionalArity() string {
	switch {
	case d.hasRest:
		return fmt.Sprintf("at least %d", d.numRequired)
	case d.numOptional > 0:
		return fmt.Sprintf("%d..%d", d.numRequired, d.numRequired+d.numOptional)
	default:
		return fmt.Sprint(d.numRequired)
	}
}

// counters are the per-method children of the registry's collectors. All of
// them are nil when metrics are disabled.
type counters struct {
	hits, misses, presets prometheus.Counter
	resets                *prometheus.CounterVec
}

func inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}
