package memo

import "sync"

// entry is one memoized outcome together with the arguments that produced
// it, kept so that a snapshot can replay it.
type entry struct {
	args  Args
	value any
}

type hashedEntry struct {
	method     string
	components []any
	entry
}

// store is the cache state of one owner, partitioned by shape:
//
//   - None: slots, method -> *entry
//   - OnePositional, OneKeyword: singles, method -> *sync.Map(key -> *entry)
//   - everything else: one flat table of hash buckets shared by all hashed
//     methods, plus a per-method index of the hashes it occupies.
//
// Inner maps of singles are published with LoadOrStore, so a reader never
// observes a map that another goroutine is still building.
type store struct {
	slots   sync.Map
	singles sync.Map

	mu     sync.RWMutex
	hashed map[uint64][]*hashedEntry
	index  map[string]map[uint64]struct{}
}

func newStore() *store {
	return &store{
		hashed: make(map[uint64][]*hashedEntry),
		index:  make(map[string]map[uint64]struct{}),
	}
}

func (s *store) get(d *Descriptor, k key) (any, bool) {
	switch {
	case d.shape == None:
		if e, ok := s.slots.Load(d.name); ok {
			return e.(*entry).value, true
		}
	case !d.shape.hashed():
		if m, ok := s.singles.Load(d.name); ok {
			if e, ok := m.(*sync.Map).Load(k.scalar); ok {
				return e.(*entry).value, true
			}
		}
	default:
		s.mu.RLock()
		defer s.mu.RUnlock()
		if he := s.find(d.name, k); he != nil {
			return he.value, true
		}
	}
	return nil, false
}

// put stores value under k, replacing any existing entry.
func (s *store) put(d *Descriptor, k key, args Args, value any) {
	s.write(d, k, args, value, true)
}

// putIfAbsent stores value unless k is already cached, and returns whichever
// value is cached afterwards.
func (s *store) putIfAbsent(d *Descriptor, k key, args Args, value any) any {
	return s.write(d, k, args, value, false)
}

func (s *store) write(d *Descriptor, k key, args Args, value any, overwrite bool) any {
	if !k.storable() {
		return value
	}
	e := &entry{args: args.clone(), value: value}
	switch {
	case d.shape == None:
		if overwrite {
			s.slots.Store(d.name, e)
			return value
		}
		actual, _ := s.slots.LoadOrStore(d.name, e)
		return actual.(*entry).value
	case !d.shape.hashed():
		m := s.singleMap(d.name)
		if overwrite {
			m.Store(k.scalar, e)
			return value
		}
		actual, _ := m.LoadOrStore(k.scalar, e)
		return actual.(*entry).value
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if he := s.find(d.name, k); he != nil {
		if overwrite {
			he.entry = *e
		}
		return he.value
	}
	s.hashed[k.hash] = append(s.hashed[k.hash], &hashedEntry{
		method:     d.name,
		components: k.components,
		entry:      *e,
	})
	hashes, ok := s.index[d.name]
	if !ok {
		hashes = make(map[uint64]struct{})
		s.index[d.name] = hashes
	}
	hashes[k.hash] = struct{}{}
	return value
}

func (s *store) singleMap(method string) *sync.Map {
	if m, ok := s.singles.Load(method); ok {
		return m.(*sync.Map)
	}
	m, _ := s.singles.LoadOrStore(method, &sync.Map{})
	return m.(*sync.Map)
}

// find walks the bucket for k and compares full components, so colliding
// hashes never alias. Callers hold mu.
func (s *store) find(method string, k key) *hashedEntry {
	for _, he := range s.hashed[k.hash] {
		if he.method == method && sameComponents(he.components, k.components) {
			return he
		}
	}
	return nil
}

func (s *store) deleteOne(d *Descriptor, k key) {
	switch {
	case d.shape == None:
		s.slots.Delete(d.name)
	case !d.shape.hashed():
		if m, ok := s.singles.Load(d.name); ok {
			m.(*sync.Map).Delete(k.scalar)
		}
	default:
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.removeFromBucket(k.hash, func(he *hashedEntry) bool {
			return he.method == d.name && sameComponents(he.components, k.components)
		}) {
			s.unindex(d.name, k.hash)
		}
	}
}

func (s *store) deleteMethod(d *Descriptor) {
	switch {
	case d.shape == None:
		s.slots.Delete(d.name)
	case !d.shape.hashed():
		s.singles.Delete(d.name)
	default:
		s.mu.Lock()
		defer s.mu.Unlock()
		for h := range s.index[d.name] {
			s.removeFromBucket(h, func(he *hashedEntry) bool { return he.method == d.name })
		}
		delete(s.index, d.name)
	}
}

// removeFromBucket drops matching entries from bucket h and reports whether
// the method owning the last match has no entry left in that bucket.
func (s *store) removeFromBucket(h uint64, match func(*hashedEntry) bool) bool {
	bucket := s.hashed[h]
	kept := bucket[:0]
	var method string
	removed := false
	for _, he := range bucket {
		if match(he) {
			method, removed = he.method, true
			continue
		}
		kept = append(kept, he)
	}
	clear(bucket[len(kept):])
	if len(kept) == 0 {
		delete(s.hashed, h)
	} else {
		s.hashed[h] = kept
	}
	if !removed {
		return false
	}
	for _, he := range kept {
		if he.method == method {
			return false
		}
	}
	return true
}

func (s *store) unindex(method string, h uint64) {
	hashes := s.index[method]
	delete(hashes, h)
	if len(hashes) == 0 {
		delete(s.index, method)
	}
}

func (s *store) clearAll() {
	s.slots.Clear()
	s.singles.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.hashed)
	clear(s.index)
}

func (s *store) len() int {
	n := 0
	s.slots.Range(func(_, _ any) bool {
		n++
		return true
	})
	s.singles.Range(func(_, m any) bool {
		m.(*sync.Map).Range(func(_, _ any) bool {
			n++
			return true
		})
		return true
	})
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, bucket := range s.hashed {
		n += len(bucket)
	}
	return n
}

// each visits every cached entry grouped by method name.
func (s *store) each(fn func(method string, e entry)) {
	s.slots.Range(func(name, e any) bool {
		fn(name.(string), *e.(*entry))
		return true
	})
	s.singles.Range(func(name, m any) bool {
		m.(*sync.Map).Range(func(_, e any) bool {
			fn(name.(string), *e.(*entry))
			return true
		})
		return true
	})
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, bucket := range s.hashed {
		for _, he := range bucket {
			fn(he.method, he.entry)
		}
	}
}
