package memo

import (
	"fmt"
	"time"

	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

// Snapshot is a plain copy of an owner's cache state. It holds no handles or
// callbacks, so generic encoders (gob, json) can round-trip it as long as
// the cached arguments and values can.
type Snapshot struct {
	OwnerType string
	OwnerID   string
	// TakenFrom and TakenTo bound the time the entries were read in.
	TakenFrom time.Time
	TakenTo   time.Time
	Methods   map[string][]SnapshotEntry
}

// SnapshotEntry is one cached outcome and the call that produced it.
type SnapshotEntry struct {
	Positional []any
	Keyword    map[string]any
	Value      any
}

// Taken returns the window during which the snapshot was captured.
func (s Snapshot) Taken() timespan.TimeSpan {
	return timespan.BetweenTimes(s.TakenFrom, s.TakenTo)
}

// Len returns the number of entries in the snapshot.
func (s Snapshot) Len() int {
	n := 0
	for _, entries := range s.Methods {
		n += len(entries)
	}
	return n
}

// Snapshot copies the owner's cache state. Entries written concurrently may
// or may not be included.
func (o *Owner) Snapshot() (Snapshot, error) {
	if o == nil || o.reg == nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", ErrDetachedOwner)
	}
	snap := Snapshot{
		OwnerType: o.reg.ownerType,
		OwnerID:   o.id.String(),
		TakenFrom: time.Now(),
		Methods:   make(map[string][]SnapshotEntry),
	}
	o.each(func(method string, e entry) {
		args := e.args.clone()
		snap.Methods[method] = append(snap.Methods[method], SnapshotEntry{
			Positional: args.Positional,
			Keyword:    args.Keyword,
			Value:      e.value,
		})
	})
	snap.TakenTo = time.Now()
	return snap, nil
}

// Restore replays every entry of snap as a preset. Entries already cached
// under the same key are replaced; other entries are left alone.
func (o *Owner) Restore(snap Snapshot) error {
	if o == nil || o.reg == nil {
		return fmt.Errorf("restore: %w", ErrDetachedOwner)
	}
	if snap.OwnerType != o.reg.ownerType {
		return fmt.Errorf("restore: %w: got %q, want %q", ErrSnapshotMismatch, snap.OwnerType, o.reg.ownerType)
	}
	for method, entries := range snap.Methods {
		for _, e := range entries {
			args := Args{Positional: e.Positional, Keyword: e.Keyword}
			if err := o.Preset(method, args, func() any { return e.Value }); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
		}
	}
	o.logger.Debug("restored memoized entries",
		zap.String("from_owner_id", snap.OwnerID),
		zap.Int("entries", snap.Len()),
	)
	return nil
}
